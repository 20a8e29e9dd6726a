package main

import (
	"log"

	"github.com/careerdeck/careerdeck/internal/bookmark"
	"github.com/careerdeck/careerdeck/internal/config"
	"github.com/careerdeck/careerdeck/internal/database"
	"github.com/careerdeck/careerdeck/internal/email"
	"github.com/careerdeck/careerdeck/internal/handler"
	"github.com/careerdeck/careerdeck/internal/ipgeolocation"
	"github.com/careerdeck/careerdeck/internal/middleware"
	"github.com/careerdeck/careerdeck/internal/outreach"
	"github.com/careerdeck/careerdeck/internal/payment"
	"github.com/careerdeck/careerdeck/internal/recruiter"
	"github.com/careerdeck/careerdeck/internal/resume"
	"github.com/careerdeck/careerdeck/internal/searchapi"
	"github.com/careerdeck/careerdeck/internal/server"
	"github.com/careerdeck/careerdeck/internal/user"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName, cfg.DatabaseSSLMode)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)
	emailClient, err := email.NewClient(cfg.EmailAPIKey, cfg.SupportEmail, cfg.NoReplyEmail, cfg.SiteName)
	if err != nil {
		log.Fatalf("unable to initialise email client: %v", err)
	}
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	searchClient := searchapi.NewClient(cfg.SearchAPIBaseURL, cfg.SearchAPIKey)

	svr := server.NewServer(
		cfg,
		conn,
		mux.NewRouter(),
		emailClient,
		ipgeolocation.NewIPGeoLocation(cfg.IPGeoLocationAPIKey, cfg.IPGeoLocationURI),
		sessionStore,
	)

	userRepo := user.NewRepository(conn)
	resumeRepo := resume.NewRepository(conn)
	leadRepo := recruiter.NewRepository(conn)
	bookmarkRepo := bookmark.NewRepository(conn)
	paymentRepo := payment.NewRepository(cfg)
	outreachSvc := outreach.NewService(searchClient, emailClient)

	svr.RegisterRoute("/health", handler.HealthCheckHandler(svr), []string{"GET"})

	// job board
	svr.RegisterRoute("/api/jobs", handler.JobsHandler(svr, searchClient, userRepo), []string{"GET"})
	svr.RegisterRoute("/api/jobs/refresh", handler.RefreshJobsHandler(svr, searchClient, userRepo), []string{"POST"})
	svr.RegisterRoute("/api/jobs/insights", handler.InsightsHandler(svr, searchClient, userRepo), []string{"GET"})
	svr.RegisterRoute("/api/jobs/feed", handler.ServeRSSFeed(svr, searchClient, userRepo), []string{"GET"})

	// bookmarks
	svr.RegisterRoute("/x/bookmark", bookmark.SaveBookmarkHandler(svr, bookmarkRepo), []string{"POST"})
	svr.RegisterRoute("/x/bookmark", bookmark.DeleteBookmarkHandler(svr, bookmarkRepo), []string{"DELETE"})
	svr.RegisterRoute("/api/bookmarks", bookmark.BookmarksHandler(svr, bookmarkRepo), []string{"GET"})

	// auth
	svr.RegisterRoute("/auth", handler.AuthPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/x/auth", handler.RequestTokenSignOn(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/x/auth/{token}", handler.VerifyTokenSignOn(svr, userRepo, cfg.AdminEmail), []string{"GET"})

	// profile and preferences
	svr.RegisterRoute("/api/profile", handler.GetProfileHandler(svr, userRepo, resumeRepo), []string{"GET"})
	svr.RegisterRoute("/api/profile", handler.SaveProfileHandler(svr, userRepo), []string{"POST"})

	// resume upload and retrieval
	svr.RegisterRoute("/x/s/m", handler.SaveResumeHandler(svr, searchClient, resumeRepo), []string{"POST"})
	svr.RegisterRoute("/x/s/m/{id}", handler.GetResumeByIDHandler(svr, resumeRepo), []string{"GET"})
	svr.RegisterRoute("/api/resume/tailor", handler.TailorResumeHandler(svr, searchClient, resumeRepo), []string{"POST"})
	svr.RegisterRoute("/api/resume/score", handler.ScoreResumeHandler(svr, searchClient, resumeRepo), []string{"POST"})

	// recruiter discovery and saved leads
	svr.RegisterRoute("/api/recruiters", handler.RecruitersHandler(svr, searchClient, userRepo), []string{"GET"})
	svr.RegisterRoute("/x/recruiter/save", handler.SaveRecruiterLeadHandler(svr, leadRepo), []string{"POST"})
	svr.RegisterRoute("/api/recruiters/saved", handler.SavedLeadsHandler(svr, leadRepo), []string{"GET"})

	// outreach
	svr.RegisterRoute("/api/outreach/draft", handler.OutreachDraftHandler(svr, outreachSvc, leadRepo, resumeRepo, searchClient), []string{"POST"})
	svr.RegisterRoute("/x/outreach/send", handler.OutreachSendHandler(svr, outreachSvc, leadRepo, resumeRepo), []string{"POST"})

	// billing
	svr.RegisterRoute("/x/checkout", middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), handler.CheckoutHandler(svr, paymentRepo)), []string{"POST"})
	svr.RegisterRoute("/x/stripe/webhook", handler.StripePaymentConfirmationWebookHandler(svr, userRepo), []string{"POST"})

	// admin
	svr.RegisterRoute("/x/admin/user", handler.DeleteUserHandler(svr, userRepo, resumeRepo), []string{"DELETE"})

	// scheduled tasks
	svr.RegisterRoute("/x/task/tokens/cleanup", handler.TriggerSignOnTokenCleanup(svr, userRepo), []string{"POST"})

	// catch-all so unmatched API paths answer in JSON
	svr.RegisterPathPrefix("/api", handler.NotFoundHandler(svr), []string{"GET", "POST", "DELETE"})

	log.Fatal(svr.Run())
}
