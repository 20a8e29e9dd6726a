package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/careerdeck/careerdeck/internal/config"
	"github.com/careerdeck/careerdeck/internal/email"
	"github.com/careerdeck/careerdeck/internal/ipgeolocation"
	"github.com/careerdeck/careerdeck/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/allegro/bigcache/v3"
	"github.com/getsentry/raven-go"
)

type Server struct {
	cfg           config.Config
	Conn          *sql.DB
	router        *mux.Router
	emailClient   email.Client
	ipGeoLocation ipgeolocation.IPGeoLocation
	SessionStore  *sessions.CookieStore
	bigCache      *bigcache.BigCache
	emailRe       *regexp.Regexp
}

func NewServer(
	cfg config.Config,
	conn *sql.DB,
	r *mux.Router,
	emailClient email.Client,
	ipGeoLocation ipgeolocation.IPGeoLocation,
	sessionStore *sessions.CookieStore,
) Server {
	// todo: move somewhere else
	raven.SetDSN(cfg.SentryDSN)

	bigCache, err := bigcache.NewBigCache(bigcache.DefaultConfig(12 * time.Hour))
	svr := Server{
		cfg:           cfg,
		Conn:          conn,
		router:        r,
		emailClient:   emailClient,
		ipGeoLocation: ipGeoLocation,
		SessionStore:  sessionStore,
		bigCache:      bigCache,
		emailRe:       regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$"),
	}
	if err != nil {
		svr.Log(err, "unable to initialise big cache")
	}

	return svr
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) RegisterPathPrefix(path string, handler http.Handler, methods []string) {
	s.router.PathPrefix(path).Handler(handler).Methods(methods...)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) GetCurrencyFromRequest(r *http.Request) (ipgeolocation.Currency, error) {
	currency := ipgeolocation.Currency{Code: ipgeolocation.CurrencyUSD, Symbol: "$"}
	ip, err := ipgeolocation.GetIPFromRequest(r)
	if err != nil {
		return currency, err
	}
	currency, err = s.ipGeoLocation.GetCurrencyForIP(ip)
	if err != nil {
		s.Log(err, fmt.Sprintf("unable to retrieve currency for ip addr %+v", ip))
	}
	return currency, nil
}

func (s Server) XML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	w.Write(data)
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func (s Server) MEDIA(w http.ResponseWriter, status int, media []byte, mediaType string) {
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Cache-Control", "max-age=31536000")
	w.WriteHeader(status)
	w.Write(media)
}

func (s Server) Log(err error, msg string) {
	raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	log.Printf("%s: %+v", msg, err)
}

func (s Server) GetEmail() email.Client {
	return s.emailClient
}

func (s Server) Redirect(w http.ResponseWriter, r *http.Request, status int, dst string) {
	http.Redirect(w, r, dst, status)
}

func (s Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		log.Printf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	return http.ListenAndServe(
		addr,
		middleware.HTTPSMiddleware(
			middleware.GzipMiddleware(
				middleware.LoggingMiddleware(middleware.HeadersMiddleware(s.router, s.cfg.Env)),
			),
			s.cfg.Env,
		),
	)
}

func (s Server) GetJWTSigningKey() []byte {
	return s.cfg.JwtSigningKey
}

// Cache exposes the underlying store for collaborators that cache
// structured entries themselves.
func (s Server) Cache() *bigcache.BigCache {
	return s.bigCache
}

func (s Server) CacheGet(key string) ([]byte, bool) {
	out, err := s.bigCache.Get(key)
	if err != nil {
		return []byte{}, false
	}
	return out, true
}

func (s Server) CacheSet(key string, val []byte) error {
	return s.bigCache.Set(key, val)
}

// SeenSince reports whether the same client IP already hit the server
// within the given window. Used to rate limit magic link requests.
func (s Server) SeenSince(r *http.Request, timeAgo time.Duration) bool {
	ipAddrs := strings.Split(r.Header.Get("x-forwarded-for"), ", ")
	if len(ipAddrs) == 0 {
		return false
	}
	lastSeen, ok := s.CacheGet(ipAddrs[0])
	if !ok {
		s.CacheSet(ipAddrs[0], []byte(time.Now().Format(time.RFC3339)))
		return false
	}
	lastSeenTime, err := time.Parse(time.RFC3339, string(lastSeen))
	if err != nil {
		s.CacheSet(ipAddrs[0], []byte(time.Now().Format(time.RFC3339)))
		return false
	}
	if !lastSeenTime.After(time.Now().Add(-timeAgo)) {
		s.CacheSet(ipAddrs[0], []byte(time.Now().Format(time.RFC3339)))
		return false
	}

	return true
}

func (s Server) IsEmail(val string) bool {
	return s.emailRe.MatchString(val)
}
