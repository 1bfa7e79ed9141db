// internal/api/server.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/internal/calculators"
	"lifecycle-audit-workers/internal/common/config"
	"lifecycle-audit-workers/internal/common/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckFunc reports whether one dependency is reachable.
type CheckFunc func(ctx context.Context) error

type Dependencies struct {
	Engine      *audit.Engine
	Calculators *calculators.Registry
	// AuditSchema is the registry input schema for validate-audit-input.
	// Nil skips the structural check.
	AuditSchema map[string]interface{}
	// Checks are run by /ready, keyed by dependency name.
	Checks map[string]CheckFunc
}

type Server struct {
	server          *http.Server
	logger          logger.Logger
	shutdownTimeout time.Duration
}

func NewServer(cfg config.HTTPConfig, deps Dependencies, log logger.Logger) *Server {
	log = log.WithFields(map[string]interface{}{"component": "http"})
	return &Server{
		server: &http.Server{
			Addr:         cfg.Address,
			Handler:      NewRouter(cfg, deps, log),
			ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		},
		logger:          log,
		shutdownTimeout: config.GetDuration(cfg.ShutdownTimeout),
	}
}

// NewRouter builds the HTTP routes. It is exported so tests can drive it
// through httptest without a listener.
func NewRouter(cfg config.HTTPConfig, deps Dependencies, log logger.Logger) http.Handler {
	h := &handler{
		engine:      deps.Engine,
		calculators: deps.Calculators,
		schema:      deps.AuditSchema,
		checks:      deps.Checks,
		logger:      log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(requestMetrics)

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit.RequestsPerSecond > 0 {
			r.Use(rateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
		}
		r.Post("/audits", h.generateAudit)
		r.Get("/industries", h.listIndustries)
		r.Get("/calculators", h.listCalculators)
		r.Post("/calculators/{name}", h.runCalculator)
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{"address": s.server.Addr})
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		return s.server.Close()
	}
	s.logger.Info("HTTP server stopped", nil)
	return nil
}
