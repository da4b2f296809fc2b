// =============================================================================
// CSV Cleaner - Web Server
// =============================================================================
//
// This file defines the HTTP server behind the upload form.
//
// MIDDLEWARE (in order):
//   RequestID, RealIP, access log, Recoverer, security headers, CORS (only
//   when server.allowed_origins is set)
//
// ROUTES:
//   GET  /         - upload form
//   POST /clean    - clean an uploaded file and download the result
//   GET  /healthz  - liveness
//   GET  /metrics  - Prometheus metrics
//
// =============================================================================

// Package web provides the HTTP server and handlers for the upload form.
package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/csv-cleaner/internal/cleaner"
	"github.com/ginjaninja78/csv-cleaner/internal/config"
	"github.com/ginjaninja78/csv-cleaner/internal/logging"
	"github.com/ginjaninja78/csv-cleaner/internal/metrics"
)

// =============================================================================
// SERVER STRUCTURE
// =============================================================================

// Server is the HTTP server for the upload form.
type Server struct {
	cfg     config.ServerConfig
	logger  zerolog.Logger
	cleaner *cleaner.Cleaner
	metrics *metrics.Collector
	form    *template.Template
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server.
//
// PARAMETERS:
//   - cfg: The server section of the configuration.
//   - logger: Request and cleaning logs go here.
//   - collector: Receives one run per upload. A nil collector gets a fresh one.
func NewServer(cfg config.ServerConfig, logger zerolog.Logger, collector *metrics.Collector) *Server {
	if collector == nil {
		collector = metrics.NewCollector()
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger.With().Str("component", "web").Logger(),
		cleaner: cleaner.New(logging.Adapt(logger)),
		metrics: collector,
		form:    template.Must(template.ParseFS(templateFiles, "templates/index.html")),
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(accessLog(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)

	if len(s.cfg.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"Content-Disposition", headerRowsIn, headerRowsOut, headerRowsDropped},
			MaxAge:         300,
		}))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleForm)
	s.router.Post("/clean", s.handleClean)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())
}

// Start listens on the configured address until Shutdown is called.
// It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info().Str("addr", s.cfg.Addr).Msg("server starting")
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// accessLog logs one line per request with zerolog.
//
// Log fields: request_id, method, path, status, bytes, duration, ip.
func accessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logger.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("ip", r.RemoteAddr).
				Msg("request")
		})
	}
}
