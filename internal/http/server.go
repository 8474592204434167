package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gagyebu/internal/log"
	"gagyebu/internal/middleware/ratelimit"
	"gagyebu/internal/middleware/security"
	"gagyebu/internal/middleware/trace"
	"gagyebu/internal/services"
)

// Options configures NewServer. Ledger and Summary are required.
type Options struct {
	Addr               string
	Ledger             *services.LedgerService
	Summary            *services.SummaryService
	RateLimitPerMinute int
	// Ready backs /readyz; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *log.Logger
}

type Server struct {
	http.Server
	ledger  *services.LedgerService
	summary *services.SummaryService
	ready   func(ctx context.Context) error
	logger  *log.Logger

	rateLimiter  *ratelimit.Limiter
	detector     *security.Detector
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	s := &Server{
		ledger:      opts.Ledger,
		summary:     opts.Summary,
		ready:       opts.Ready,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:    security.NewDetector(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/budget", s.handleBudget)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/years/{source}", s.handleYears)
	mux.HandleFunc("GET /api/tabs/{source}/{year}/{section}", s.handleTabs)
	mux.HandleFunc("GET /api/categories/{source}/{section}", s.handleCategories)
	mux.HandleFunc("GET /api/recurring/{source}/{year}/{section}", s.handleRecurring)
	mux.HandleFunc("GET /api/projects/{source}", s.handleProjects)
	mux.HandleFunc("GET /api/revision", s.handleRevision)

	mux.HandleFunc("GET /api/ledger/{path...}", s.handleGet)
	mux.HandleFunc("PUT /api/ledger/{path...}", s.handlePut)
	mux.HandleFunc("POST /api/ledger/{path...}", s.handleAdd)
	mux.HandleFunc("PATCH /api/ledger/{path...}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/ledger/{path...}", s.handleRemove)
	mux.HandleFunc("POST /api/reorder/{path...}", s.handleReorder)
	mux.HandleFunc("POST /api/adjust/{path...}", s.handleAdjust)
	mux.HandleFunc("POST /api/import", s.handleImport)

	limited := s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit,
		http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete)
	var handler http.Handler = mux
	handler = limited(handler)
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(logger, s.detector.ExtractClientIP).Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Shutdown stops the rate limiter and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded, try again later"})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
