// Package server implements the HTTP surface of the gateway: POST /analyze,
// GET /health and the Prometheus endpoint, wrapped in CORS, request IDs
// and metrics middleware.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxguard/internal/config"
	"voxguard/internal/interfaces"
	"voxguard/internal/logging"
	"voxguard/internal/metrics"
)

// Server provides the HTTP API
type Server struct {
	server   *http.Server
	cfg      *config.Config
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	// state is swapped on config reload
	state     atomic.Pointer[requestState]
	startTime time.Time
}

// requestState holds the per-request settings that follow config reloads
type requestState struct {
	analyzer     interfaces.Analyzer
	maxBodyBytes int64
}

// New creates the HTTP server. gatherer may be nil to disable /metrics.
func New(cfg *config.Config, analyzer interfaces.Analyzer, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		cfg:       cfg,
		metrics:   m,
		gatherer:  gatherer,
		startTime: time.Now(),
	}
	s.state.Store(&requestState{analyzer: analyzer, maxBodyBytes: cfg.Server.MaxBodyBytes})

	s.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return s
}

// Handler builds the routed, middleware-wrapped handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)
	return withRequestID(withCORS(s.cfg.Server.AllowedOrigins, mux))
}

// setupRoutes configures HTTP API routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", s.withMetrics("/analyze", s.handleAnalyze))
	mux.HandleFunc("GET /health", s.withMetrics("/health", s.handleHealth))

	if s.gatherer != nil && s.cfg.MetricsEnabled() {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// SetAnalyzer replaces the analyzer used by subsequent requests
func (s *Server) SetAnalyzer(analyzer interfaces.Analyzer) {
	s.state.Store(&requestState{analyzer: analyzer, maxBodyBytes: s.state.Load().maxBodyBytes})
}

// Reload applies a reloaded config's request limits together with its
// analyzer. Listen address, timeouts and CORS origins need a restart.
func (s *Server) Reload(cfg *config.Config, analyzer interfaces.Analyzer) {
	s.state.Store(&requestState{analyzer: analyzer, maxBodyBytes: cfg.Server.MaxBodyBytes})
}

// Analyzer returns the analyzer currently serving requests
func (s *Server) Analyzer() interfaces.Analyzer {
	return s.state.Load().analyzer
}

// MaxBodyBytes returns the current /analyze body limit, 0 when unlimited
func (s *Server) MaxBodyBytes() int64 {
	return s.state.Load().maxBodyBytes
}

// ListenAndServe serves until Shutdown is called
func (s *Server) ListenAndServe() error {
	logging.Info("Starting HTTP server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight analyses
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}
