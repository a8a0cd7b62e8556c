package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cuzdan/internal/cache"
	"cuzdan/internal/log"
	"cuzdan/internal/middleware/ratelimit"
	"cuzdan/internal/middleware/security"
	"cuzdan/internal/middleware/trace"
	"cuzdan/internal/recurrence"
	"cuzdan/internal/services"
	"cuzdan/internal/store"
)

// Options configures the API server. Zero values fall back to defaults.
type Options struct {
	Logger             *log.Logger
	Exports            *services.ExportService
	ReadyCheck         func(ctx context.Context) error
	UpcomingHorizon    int
	ReportCacheSize    int
	ReportCacheTTL     time.Duration
	RateLimitPerMinute int
	TrustedProxies     []string
}

// Server is the JSON API over a Store.
type Server struct {
	http.Server

	store   *store.Store
	exports *services.ExportService
	logger  *log.Logger
	ready   func(ctx context.Context) error
	horizon int

	reports  *cache.LRUCache[reportResponse]
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, st *store.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.UpcomingHorizon <= 0 {
		opts.UpcomingHorizon = recurrence.DefaultHorizonDays
	}
	if opts.ReportCacheSize <= 0 {
		opts.ReportCacheSize = 128
	}
	if opts.ReportCacheTTL <= 0 {
		opts.ReportCacheTTL = 5 * time.Minute
	}

	logger := opts.Logger.WithComponent(log.ComponentHTTP)
	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}

	s := &Server{
		store:     st,
		exports:   opts.Exports,
		logger:    logger,
		ready:     opts.ReadyCheck,
		horizon:   opts.UpcomingHorizon,
		reports:   cache.NewLRUCache[reportResponse](opts.ReportCacheSize, opts.ReportCacheTTL),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:  detector,
		tracer:    trace.NewMiddleware(detector.ExtractClientIP, logger),
		startedAt: time.Now(),
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestIDMiddleware(trace.FromRequest))
	r.Use(s.detector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			writeErrorMessage(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		}, http.MethodPost, http.MethodPut, http.MethodDelete))

		r.Get("/categories", s.handleCategories)

		r.Get("/profiles", s.handleListProfiles)
		r.Post("/profiles", s.handleCreateProfile)
		r.Get("/profiles/active", s.handleActiveProfile)
		r.Post("/profiles/select", s.handleSelectProfile)

		r.Route("/profiles/{profileID}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteProfile)
			r.Get("/transactions", s.handleListTransactions)
			r.Post("/transactions", s.handleCreateTransaction)
			r.Get("/summary", s.handleSummary)
			r.Get("/report", s.handleReport)
			r.Get("/trend", s.handleTrend)
			r.Get("/upcoming", s.handleUpcoming)
			r.Get("/calendar", s.handleCalendar)
			r.Post("/exports", s.handleRequestExport)
		})

		r.Put("/transactions/{transactionID}", s.handleUpdateTransaction)
		r.Delete("/transactions/{transactionID}", s.handleDeleteTransaction)

		r.Post("/maintenance/cleanup", s.handleCleanup)
	})

	return r
}

// ReportCache exposes the aggregation cache so callers can register it with
// a cache.Manager.
func (s *Server) ReportCache() cache.Cleaner {
	return s.reports
}

// Shutdown stops background helpers and gracefully shuts down the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
