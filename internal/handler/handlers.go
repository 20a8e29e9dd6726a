package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/careerdeck/careerdeck/internal/board"
	"github.com/careerdeck/careerdeck/internal/database"
	"github.com/careerdeck/careerdeck/internal/email"
	"github.com/careerdeck/careerdeck/internal/insights"
	"github.com/careerdeck/careerdeck/internal/listing"
	"github.com/careerdeck/careerdeck/internal/middleware"
	"github.com/careerdeck/careerdeck/internal/outreach"
	"github.com/careerdeck/careerdeck/internal/payment"
	"github.com/careerdeck/careerdeck/internal/recruiter"
	"github.com/careerdeck/careerdeck/internal/resume"
	"github.com/careerdeck/careerdeck/internal/searchapi"
	"github.com/careerdeck/careerdeck/internal/server"
	"github.com/careerdeck/careerdeck/internal/user"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/feeds"
	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"github.com/segmentio/ksuid"
)

const (
	maxResumeBytes = int64(5 << 20)

	SearchTypeJob       = "job"
	SearchTypeRecruiter = "recruiter"
)

var allowedResumeMediaTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

func HealthCheckHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svr.Conn.Ping(); err != nil {
			svr.Log(err, "postgres is not reachable")
			svr.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// preferencesForRequest resolves the job search preferences that seed
// the board: the signed on user's saved ones, or empty defaults for
// anonymous visitors.
func preferencesForRequest(svr server.Server, r *http.Request, userRepo *user.Repository) searchapi.Preferences {
	profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
	if err != nil {
		return searchapi.Preferences{}
	}
	prefs, err := userRepo.GetPreferences(profile.UserID)
	if err != nil {
		svr.Log(err, "unable to load user preferences, using defaults")
		return searchapi.Preferences{}
	}
	return searchapi.Preferences{
		JobTypes:   prefs.JobTypes,
		Industries: prefs.Industries,
		Locations:  prefs.Locations,
	}
}

func trackSearchEvent(svr server.Server, r *http.Request, query, searchType string, results int) {
	ua := r.Header.Get("user-agent")
	ref := r.Header.Get("referer")
	ips := strings.Split(r.Header.Get("x-forwarded-for"), ", ")
	if len(ips) > 0 && strings.Contains(ref, svr.GetConfig().SiteHost) {
		hashedIP := sha256.Sum256([]byte(ips[0]))
		go func() {
			if err := database.TrackSearchEvent(svr.Conn, ua, hex.EncodeToString(hashedIP[:]), query, searchType, results); err != nil {
				fmt.Printf("err while saving event: %s\n", err)
			}
		}()
	}
}

// JobsHandler serves the board view: fetched postings filtered, sorted
// and paginated according to the query string.
func JobsHandler(svr server.Server, searchClient searchapi.Client, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs := preferencesForRequest(svr, r, userRepo)
		b := board.New(searchClient, svr.Cache(), prefs)
		if err := b.Load(r.Context()); err != nil {
			svr.Log(err, "unable to load postings from upstream")
			svr.JSON(w, http.StatusBadGateway, map[string]string{"status": "upstream error"})
			return
		}
		q := r.URL.Query().Get("q")
		b.SetSearchText(q)
		b.SetJobType(r.URL.Query().Get("type"))
		b.SetSortKey(listing.SortKey(r.URL.Query().Get("sort")))
		if page, err := strconv.Atoi(r.URL.Query().Get("p")); err == nil {
			b.SetPage(page)
		}
		view := b.View()
		trackSearchEvent(svr, r, q, SearchTypeJob, view.TotalMatches)
		svr.JSON(w, http.StatusOK, view)
	}
}

// RefreshJobsHandler re-fetches the posting list, bypassing the cache.
// A failed refresh keeps the cached list and reports the failure.
func RefreshJobsHandler(svr server.Server, searchClient searchapi.Client, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs := preferencesForRequest(svr, r, userRepo)
		b := board.New(searchClient, svr.Cache(), prefs)
		if err := b.Refresh(r.Context()); err != nil {
			svr.Log(err, "unable to refresh postings from upstream")
			svr.JSON(w, http.StatusBadGateway, map[string]string{"status": "upstream error"})
			return
		}
		svr.JSON(w, http.StatusOK, b.View())
	}
}

func InsightsHandler(svr server.Server, searchClient searchapi.Client, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs := preferencesForRequest(svr, r, userRepo)
		b := board.New(searchClient, svr.Cache(), prefs)
		if err := b.Load(r.Context()); err != nil {
			svr.Log(err, "unable to load postings for insights")
			svr.JSON(w, http.StatusBadGateway, map[string]string{"status": "upstream error"})
			return
		}
		source := listing.Sort(b.Source(), listing.SortByMatch)
		svr.JSON(w, http.StatusOK, insights.Compute(source))
	}
}

func ServeRSSFeed(svr server.Server, searchClient searchapi.Client, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs := preferencesForRequest(svr, r, userRepo)
		b := board.New(searchClient, svr.Cache(), prefs)
		if err := b.Load(r.Context()); err != nil {
			svr.Log(err, "unable to retrieve postings for RSS Feed")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		cfg := svr.GetConfig()
		now := time.Now()
		feed := &feeds.Feed{
			Title:       fmt.Sprintf("%s Jobs", cfg.SiteName),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s%s", cfg.URLProtocol, cfg.SiteHost)},
			Description: fmt.Sprintf("%s Jobs", cfg.SiteName),
			Author:      &feeds.Author{Name: cfg.SiteName, Email: cfg.SupportEmail},
			Created:     now,
		}
		postings := listing.Sort(b.Source(), listing.SortByDate)
		if len(postings) > 20 {
			postings = postings[:20]
		}
		for _, p := range postings {
			created := now.AddDate(0, 0, -listing.AgeInDays(p.PostedRecency))
			if listing.AgeInDays(p.PostedRecency) == listing.UnknownAge {
				created = now
			}
			feed.Items = append(feed.Items, &feeds.Item{
				Title:       fmt.Sprintf("%s with %s - %s", p.Title, p.Company, p.Location),
				Link:        &feeds.Link{Href: fmt.Sprintf("%s%s/job/%s", cfg.URLProtocol, cfg.SiteHost, p.ID)},
				Description: fmt.Sprintf("%s is hiring a %s in %s (%s)", p.Company, p.Title, p.Location, p.JobType),
				Author:      &feeds.Author{Name: cfg.SiteName, Email: cfg.SupportEmail},
				Created:     created,
			})
		}
		rssFeed, err := feed.ToRss()
		if err != nil {
			svr.Log(err, "unable to convert rss feed to xml")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		svr.XML(w, http.StatusOK, []byte(rssFeed))
	}
}

func AuthPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if middleware.IsSignedOn(r, svr.SessionStore, svr.GetJWTSigningKey()) {
			svr.JSON(w, http.StatusOK, map[string]interface{}{
				"signedOn": true,
				"message":  "already signed on, see /api/profile",
			})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"signedOn": false,
			"message":  "POST your email to /x/auth to receive a sign on link",
		})
	}
}

// NotFoundHandler is the catch-all for unmatched API paths so clients
// get JSON instead of the router's plain text default.
func NotFoundHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.JSON(w, http.StatusNotFound, map[string]string{"status": "not found"})
	}
}

func RequestTokenSignOn(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svr.SeenSince(r, time.Minute) {
			svr.JSON(w, http.StatusTooManyRequests, nil)
			return
		}
		req := &struct {
			Email string `json:"email"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if !svr.IsEmail(req.Email) {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		k, err := ksuid.NewRandom()
		if err != nil {
			svr.Log(err, "unable to generate token")
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		err = userRepo.SaveTokenSignOn(req.Email, k.String())
		if err != nil {
			svr.Log(err, "unable to save sign on token")
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		cfg := svr.GetConfig()
		err = svr.GetEmail().SendHTMLEmail(
			email.Address{Name: svr.GetEmail().DefaultSenderName(), Email: svr.GetEmail().NoReplySenderAddress()},
			email.Address{Email: req.Email},
			email.Address{Email: svr.GetEmail().DefaultReplyTo()},
			fmt.Sprintf("Sign On on %s", cfg.SiteName),
			fmt.Sprintf("Sign On on %s %s%s/x/auth/%s", cfg.SiteName, cfg.URLProtocol, cfg.SiteHost, k.String()),
		)
		if err != nil {
			svr.Log(err, "unable to send sign on email")
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		svr.JSON(w, http.StatusOK, nil)
	}
}

func VerifyTokenSignOn(svr server.Server, userRepo *user.Repository, adminEmail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		token := vars["token"]
		u, _, err := userRepo.GetOrCreateUserFromToken(token)
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to validate signon token %s", token))
			svr.TEXT(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		sess, err := svr.SessionStore.Get(r, middleware.SessionName)
		if err != nil {
			svr.TEXT(w, http.StatusInternalServerError, "Invalid or expired token")
			return
		}
		cfg := svr.GetConfig()
		stdClaims := &jwt.StandardClaims{
			ExpiresAt: time.Now().Add(30 * 24 * time.Hour).UTC().Unix(),
			IssuedAt:  time.Now().UTC().Unix(),
			Issuer:    fmt.Sprintf("%s%s", cfg.URLProtocol, cfg.SiteHost),
		}
		claims := middleware.UserJWT{
			UserID:         u.ID,
			Email:          u.Email,
			IsAdmin:        u.Email == adminEmail,
			PlanTier:       u.PlanTier,
			CreatedAt:      u.CreatedAt,
			StandardClaims: *stdClaims,
		}
		tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		ss, err := tkn.SignedString(svr.GetJWTSigningKey())
		if err != nil {
			svr.Log(err, "unable to sign jwt")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		sess.Values["jwt"] = ss
		if err := sess.Save(r, w); err != nil {
			svr.Log(err, "unable to save jwt into session cookie")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.Redirect(w, r, http.StatusMovedPermanently, "/api/profile")
	}
}

func GetProfileHandler(svr server.Server, userRepo *user.Repository, resumeRepo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		u, err := userRepo.GetUser(profile.Email)
		if err != nil {
			svr.Log(err, "unable to load user profile")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		prefs, err := userRepo.GetPreferences(u.ID)
		if err != nil {
			svr.Log(err, "unable to load user preferences")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		out := map[string]interface{}{
			"email":              u.Email,
			"createdAt":          u.CreatedAt,
			"createdAtHumanized": u.CreatedAtHumanised,
			"planTier":           u.PlanTier,
			"preferences":        prefs,
		}
		if latest, err := resumeRepo.LatestResumeForUser(u.ID); err == nil {
			out["resume"] = latest
		}
		svr.JSON(w, http.StatusOK, out)
	}
}

func SaveProfileHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		req := struct {
			JobTypes   []string `json:"jobTypes"`
			Industries []string `json:"industries"`
			Locations  []string `json:"locations"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
			return
		}
		p := bluemonday.StrictPolicy()
		prefs := user.Preferences{
			JobTypes:   sanitizeAll(p, req.JobTypes),
			Industries: sanitizeAll(p, req.Industries),
			Locations:  sanitizeAll(p, req.Locations),
		}
		if err := userRepo.SavePreferences(profile.UserID, prefs); err != nil {
			svr.Log(err, "unable to save user preferences")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func sanitizeAll(p *bluemonday.Policy, vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if clean := strings.TrimSpace(p.Sanitize(v)); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

// SaveResumeHandler accepts a raw resume upload and runs it through the
// upstream parser. The stored resume keeps the original bytes so tailor
// and score calls can reuse them.
func SaveResumeHandler(svr server.Server, searchClient searchapi.Client, resumeRepo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxResumeBytes)
		data, err := io.ReadAll(r.Body)
		if err != nil {
			svr.Log(err, "unable to read resume upload")
			svr.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{"status": "resume too large"})
			return
		}
		mediaType := r.Header.Get("Content-Type")
		if !allowedResumeMediaTypes[mediaType] {
			svr.JSON(w, http.StatusUnsupportedMediaType, map[string]string{"status": "unsupported media type"})
			return
		}
		fileName := bluemonday.StrictPolicy().Sanitize(r.URL.Query().Get("filename"))
		if fileName == "" {
			fileName = "resume.pdf"
		}
		res, err := resumeRepo.SaveResume(profile.UserID, fileName, mediaType, data)
		if err != nil {
			svr.Log(err, "unable to save resume")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		parsed, err := searchClient.ParseResume(r.Context(), data, mediaType)
		if err != nil {
			svr.Log(err, "unable to parse resume upstream")
			svr.JSON(w, http.StatusOK, map[string]interface{}{"id": res.ID, "parsed": false})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"id":      res.ID,
			"parsed":  true,
			"profile": parsed,
		})
	}
}

func GetResumeByIDHandler(svr server.Server, resumeRepo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		vars := mux.Vars(r)
		res, err := resumeRepo.GetResumeByID(vars["id"])
		if err != nil {
			svr.JSON(w, http.StatusNotFound, nil)
			return
		}
		if res.UserID != profile.UserID && !profile.IsAdmin {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		svr.MEDIA(w, http.StatusOK, res.Data, res.MediaType)
	}
}

type resumeActionRequest struct {
	ResumeID string          `json:"resumeId"`
	Posting  listing.Posting `json:"posting"`
}

func resumeForAction(svr server.Server, r *http.Request, resumeRepo *resume.Repository) (resume.Resume, *resumeActionRequest, error) {
	profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
	if err != nil {
		return resume.Resume{}, nil, err
	}
	req := &resumeActionRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return resume.Resume{}, nil, err
	}
	var res resume.Resume
	if req.ResumeID != "" {
		res, err = resumeRepo.GetResumeByID(req.ResumeID)
	} else {
		res, err = resumeRepo.LatestResumeForUser(profile.UserID)
	}
	if err != nil {
		return resume.Resume{}, nil, err
	}
	if res.UserID != profile.UserID {
		return resume.Resume{}, nil, errors.New("resume does not belong to user")
	}
	return res, req, nil
}

func TailorResumeHandler(svr server.Server, searchClient searchapi.Client, resumeRepo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, req, err := resumeForAction(svr, r, resumeRepo)
		if err != nil {
			svr.Log(err, "unable to resolve resume for tailoring")
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
			return
		}
		tailored, err := searchClient.TailorResume(r.Context(), res.Data, res.MediaType, req.Posting)
		if err != nil {
			svr.Log(err, "unable to tailor resume upstream")
			svr.JSON(w, http.StatusBadGateway, map[string]string{"status": "upstream error"})
			return
		}
		svr.JSON(w, http.StatusOK, tailored)
	}
}

func ScoreResumeHandler(svr server.Server, searchClient searchapi.Client, resumeRepo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, req, err := resumeForAction(svr, r, resumeRepo)
		if err != nil {
			svr.Log(err, "unable to resolve resume for scoring")
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
			return
		}
		score, err := searchClient.ScoreResume(r.Context(), res.Data, res.MediaType, req.Posting)
		if err != nil {
			svr.Log(err, "unable to score resume upstream")
			svr.JSON(w, http.StatusBadGateway, map[string]string{"status": "upstream error"})
			return
		}
		if err := resumeRepo.UpdateScores(res.ID, score.MatchScore, score.CombinedScore); err != nil {
			svr.Log(err, "unable to persist resume scores")
		}
		svr.JSON(w, http.StatusOK, score)
	}
}

func RecruitersHandler(svr server.Server, searchClient searchapi.Client, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs := preferencesForRequest(svr, r, userRepo)
		page, err := strconv.Atoi(r.URL.Query().Get("p"))
		if err != nil || page < 1 {
			page = 1
		}
		q := r.URL.Query().Get("q")
		recruiters, total, err := searchClient.SearchRecruiters(r.Context(), searchapi.RecruiterQuery{
			Query:      q,
			Industries: prefs.Industries,
			Locations:  prefs.Locations,
			Page:       page,
			PerPage:    svr.GetConfig().RecruitersPerPage,
		})
		if err != nil {
			svr.Log(err, "unable to search recruiters upstream")
			svr.JSON(w, http.StatusBadGateway, map[string]string{"status": "upstream error"})
			return
		}
		trackSearchEvent(svr, r, q, SearchTypeRecruiter, len(recruiters))
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"recruiters":  recruiters,
			"totalCount":  total,
			"currentPage": page,
			"perPage":     svr.GetConfig().RecruitersPerPage,
		})
	}
}

func SaveRecruiterLeadHandler(svr server.Server, leadRepo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		req := struct {
			ExternalID  string `json:"externalId"`
			Name        string `json:"name"`
			Email       string `json:"email"`
			Title       string `json:"title"`
			Company     string `json:"company"`
			CompanyURL  string `json:"companyUrl"`
			LinkedInURL string `json:"linkedinUrl"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
			return
		}
		if req.ExternalID == "" || req.Name == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "external id and name are required"})
			return
		}
		if req.Email != "" && !svr.IsEmail(req.Email) {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "invalid email"})
			return
		}
		p := bluemonday.StrictPolicy()
		lead, err := leadRepo.SaveLead(recruiter.Lead{
			UserID:      profile.UserID,
			ExternalID:  p.Sanitize(req.ExternalID),
			Name:        p.Sanitize(req.Name),
			Email:       p.Sanitize(req.Email),
			Title:       p.Sanitize(req.Title),
			Company:     p.Sanitize(req.Company),
			CompanyURL:  p.Sanitize(req.CompanyURL),
			LinkedInURL: p.Sanitize(req.LinkedInURL),
		})
		if err != nil {
			svr.Log(err, "unable to save recruiter lead")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, lead)
	}
}

func SavedLeadsHandler(svr server.Server, leadRepo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		leads, err := leadRepo.LeadsForUser(profile.UserID)
		if err != nil {
			svr.Log(err, "unable to load recruiter leads")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{"leads": leads})
	}
}

func OutreachDraftHandler(svr server.Server, svc *outreach.Service, leadRepo *recruiter.Repository, resumeRepo *resume.Repository, searchClient searchapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		req := struct {
			LeadID string `json:"leadId"`
			Role   string `json:"role"`
			Tone   string `json:"tone"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
			return
		}
		lead, err := leadRepo.LeadByID(profile.UserID, req.LeadID)
		if err != nil {
			svr.JSON(w, http.StatusNotFound, map[string]string{"status": "lead not found"})
			return
		}
		var resumeSummary string
		if res, err := resumeRepo.LatestResumeForUser(profile.UserID); err == nil {
			if parsed, err := searchClient.ParseResume(r.Context(), res.Data, res.MediaType); err == nil {
				resumeSummary = parsed.Summary
			}
		}
		draft, err := svc.Draft(r.Context(), lead, req.Role, req.Tone, resumeSummary)
		if err != nil {
			svr.Log(err, "unable to draft outreach message")
			svr.JSON(w, http.StatusBadGateway, map[string]string{"status": "upstream error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"subject":      draft.Subject,
			"bodyMarkdown": draft.BodyMarkdown,
			"bodyHtml":     outreach.RenderHTML(draft.BodyMarkdown),
		})
	}
}

func OutreachSendHandler(svr server.Server, svc *outreach.Service, leadRepo *recruiter.Repository, resumeRepo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		req := struct {
			LeadID       string `json:"leadId"`
			FromName     string `json:"fromName"`
			Subject      string `json:"subject"`
			Body         string `json:"body"`
			AttachResume bool   `json:"attachResume"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
			return
		}
		if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "subject and body are required"})
			return
		}
		lead, err := leadRepo.LeadByID(profile.UserID, req.LeadID)
		if err != nil {
			svr.JSON(w, http.StatusNotFound, map[string]string{"status": "lead not found"})
			return
		}
		var attachment []byte
		var attachmentName string
		if req.AttachResume {
			res, err := resumeRepo.LatestResumeForUser(profile.UserID)
			if err != nil {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "no resume to attach"})
				return
			}
			attachment = res.Data
			attachmentName = res.FileName
		}
		fromName := bluemonday.StrictPolicy().Sanitize(req.FromName)
		if err := svc.Send(lead, fromName, profile.Email, req.Subject, req.Body, attachment, attachmentName); err != nil {
			svr.Log(err, "unable to send outreach email")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		if err := leadRepo.MarkContacted(profile.UserID, lead.ID); err != nil {
			svr.Log(err, "unable to mark lead as contacted")
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// TriggerSignOnTokenCleanup deletes stale magic link tokens. Meant to be
// hit by a scheduler with the shared machine token.
func TriggerSignOnTokenCleanup(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return middleware.MachineAuthenticatedMiddleware(
		svr.GetConfig().MachineToken,
		func(w http.ResponseWriter, r *http.Request) {
			if err := userRepo.DeleteExpiredUserSignOnTokens(); err != nil {
				svr.Log(err, "unable to delete expired sign on tokens")
				svr.JSON(w, http.StatusInternalServerError, nil)
				return
			}
			svr.JSON(w, http.StatusOK, nil)
		},
	)
}

// DeleteUserHandler removes an account and its stored resumes. Admin only.
func DeleteUserHandler(svr server.Server, userRepo *user.Repository, resumeRepo *resume.Repository) http.HandlerFunc {
	return middleware.AdminAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			req := struct {
				Email string `json:"email"`
			}{}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
				return
			}
			if !svr.IsEmail(req.Email) {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "invalid email"})
				return
			}
			u, err := userRepo.GetUser(req.Email)
			if err != nil {
				svr.JSON(w, http.StatusNotFound, map[string]string{"status": "user not found"})
				return
			}
			if err := resumeRepo.DeleteResumesForUser(u.ID); err != nil {
				svr.Log(err, fmt.Sprintf("unable to delete resumes for user %s", u.ID))
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
				return
			}
			if err := userRepo.DeleteUserByEmail(req.Email); err != nil {
				svr.Log(err, fmt.Sprintf("unable to delete user %s", u.ID))
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
				return
			}
			svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
	)
}

func CheckoutHandler(svr server.Server, paymentRepo *payment.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		req := struct {
			PlanTier string `json:"planTier"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
			return
		}
		currency, err := svr.GetCurrencyFromRequest(r)
		if err != nil {
			svr.Log(err, "could not find ip address in x-forwarded-for, defaulting currency to USD")
		}
		sess, err := paymentRepo.CreateSession(profile.Email, req.PlanTier, currency.Code)
		if err != nil {
			svr.Log(err, "unable to create stripe checkout session")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		if sess == nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "unknown plan tier"})
			return
		}
		err = database.InitiatePaymentEvent(
			svr.Conn,
			sess.ID,
			paymentRepo.PlanTierToAmount(req.PlanTier),
			currency.Code,
			payment.PlanTierToDescription(req.PlanTier),
			profile.Email,
			profile.UserID,
			req.PlanTier,
		)
		if err != nil {
			svr.Log(err, "unable to save payment initiated event")
		}
		svr.JSON(w, http.StatusOK, map[string]string{
			"sessionId":            sess.ID,
			"stripePublishableKey": svr.GetConfig().StripePublishableKey,
		})
	}
}

func StripePaymentConfirmationWebookHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		const MaxBodyBytes = int64(65536)
		req.Body = http.MaxBytesReader(w, req.Body, MaxBodyBytes)
		body, err := io.ReadAll(req.Body)
		if err != nil {
			svr.Log(err, "error reading request body from stripe")
			svr.JSON(w, http.StatusServiceUnavailable, nil)
			return
		}

		stripeSig := req.Header.Get("Stripe-Signature")
		sess, err := payment.HandleCheckoutSessionComplete(body, svr.GetConfig().StripeEndpointSecret, stripeSig)
		if err != nil {
			svr.Log(err, "error while handling checkout session complete")
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if sess != nil {
			affectedRows, err := database.SaveSuccessfulPayment(svr.Conn, sess.ID)
			if err != nil {
				svr.Log(err, "error while saving successful payment")
				svr.JSON(w, http.StatusBadRequest, nil)
				return
			}
			if affectedRows != 1 {
				svr.Log(errors.New("invalid number of rows affected when saving payment"), fmt.Sprintf("got %d expected 1", affectedRows))
				svr.JSON(w, http.StatusBadRequest, nil)
				return
			}
			purchaseEvent, err := database.GetPurchaseEventBySessionID(svr.Conn, sess.ID)
			if err != nil {
				svr.Log(errors.New("unable to find purchase event by stripe session id"), fmt.Sprintf("session id %s", sess.ID))
				svr.JSON(w, http.StatusBadRequest, nil)
				return
			}
			expiry := payment.PlanTierExpiry(purchaseEvent.PlanTier)
			if err := userRepo.UpdatePlanTier(purchaseEvent.UserID, purchaseEvent.PlanTier, expiry); err != nil {
				svr.Log(err, fmt.Sprintf("unable to activate plan %s for user %s", purchaseEvent.PlanTier, purchaseEvent.UserID))
				svr.JSON(w, http.StatusBadRequest, nil)
				return
			}
			cfg := svr.GetConfig()
			err = svr.GetEmail().SendHTMLEmail(
				email.Address{Name: svr.GetEmail().DefaultSenderName(), Email: svr.GetEmail().NoReplySenderAddress()},
				email.Address{Email: purchaseEvent.Email},
				email.Address{Email: svr.GetEmail().SupportSenderAddress()},
				fmt.Sprintf("Your %s Subscription", cfg.SiteName),
				fmt.Sprintf("Your %s is active until %s. Thanks for subscribing to %s", payment.PlanTierToDescription(purchaseEvent.PlanTier), expiry.Format("January 2, 2006"), cfg.SiteName),
			)
			if err != nil {
				svr.Log(err, "unable to send subscription confirmation email")
			}
			svr.JSON(w, http.StatusOK, nil)
			return
		}

		svr.JSON(w, http.StatusOK, nil)
	}
}
