// Package server serves the run history over a read-only HTTP API.
//
// Routes:
//
//	GET /api/runs                  stored runs, newest first (?configuration=, ?limit=)
//	GET /api/runs/{id}             the full report of one run
//	GET /api/runs/{id}/results     scenario results of one run (?status=)
//	GET /api/history               outcome of one check across runs (?check=, ?limit=)
//	GET /api/clauses               the clause catalog
//	GET /healthz                   liveness
//	GET /metrics                   Prometheus metrics
//
// The server never runs suites; it reads what moneytck run stored.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	metricsprom "github.com/slok/go-http-metrics/metrics/prometheus"
	httpmetrics "github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"
	"go.uber.org/zap"

	"github.com/roach88/moneytck/internal/clause"
	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/internal/report"
	"github.com/roach88/moneytck/internal/store"
)

// RunStore is the part of *store.Store the server reads.
type RunStore interface {
	ListRuns(ctx context.Context, opts store.ListOptions) ([]store.RunSummary, error)
	GetRun(ctx context.Context, id string) (*report.Report, error)
	Results(ctx context.Context, id string, status harness.Status) ([]harness.ScenarioResult, error)
	CheckHistory(ctx context.Context, checkID string, limit int) ([]store.CheckOutcome, error)
}

// Options configure the server.
type Options struct {
	// AllowedOrigins for CORS. Empty allows none.
	AllowedOrigins []string

	// Registry receives the HTTP metrics and is served on /metrics.
	// Nil uses a fresh registry.
	Registry *prometheus.Registry
}

// Server is the HTTP API.
type Server struct {
	router     *chi.Mux
	store      RunStore
	catalog    *clause.Catalog
	log        *zap.Logger
	metrics    httpmetrics.Middleware
	httpServer *http.Server
}

// New creates a server reading from runs.
func New(runs RunStore, catalog *clause.Catalog, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &Server{
		router:  chi.NewRouter(),
		store:   runs,
		catalog: catalog,
		log:     log,
		metrics: httpmetrics.New(httpmetrics.Config{
			Recorder: metricsprom.NewRecorder(metricsprom.Config{Registry: reg}),
		}),
	}

	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(s.logging)
	s.router.Use(s.recovery)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/runs", func(r chi.Router) {
			r.Method(http.MethodGet, "/", s.measured("/api/runs", s.listRuns))
			r.Method(http.MethodGet, "/{id}", s.measured("/api/runs/{id}", s.getRun))
			r.Method(http.MethodGet, "/{id}/results", s.measured("/api/runs/{id}/results", s.getResults))
		})
		r.Method(http.MethodGet, "/history", s.measured("/api/history", s.checkHistory))
		r.Method(http.MethodGet, "/clauses", s.measured("/api/clauses", s.listClauses))
	})
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// measured wraps h with HTTP metrics under a fixed handler ID, so run IDs
// never become label values.
func (s *Server) measured(id string, h http.HandlerFunc) http.Handler {
	return std.Handler(id, s.metrics, h)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr and serves until Shutdown.
func (s *Server) Run(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown. After Shutdown it
// returns http.ErrServerClosed.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("server listening", zap.String("addr", ln.Addr().String()))
	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic recovered",
					zap.String("path", r.URL.Path),
					zap.Any("error", rec),
					zap.Stack("stack"),
				)
				writeError(w, http.StatusInternalServerError, "internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
