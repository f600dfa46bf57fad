// Package api provides the REST API server for filtered SObject metadata.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	v1 "github.com/stacklok/sobject-gateway/internal/api/v1"
	"github.com/stacklok/sobject-gateway/internal/gateway"
)

// ServerOption configures the gateway API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares    []func(http.Handler) http.Handler
	readiness      v1.ReadinessCheck
	metricsHandler http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithReadinessCheck sets the check behind the /readiness endpoint
func WithReadinessCheck(check v1.ReadinessCheck) ServerOption {
	return func(cfg *serverConfig) {
		cfg.readiness = check
	}
}

// WithMetricsHandler serves handler at /metrics. A nil handler is ignored.
func WithMetricsHandler(handler http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metricsHandler = handler
	}
}

// NewServer creates and configures the HTTP router with the given service and options
func NewServer(svc gateway.Service, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.Mount("/", v1.HealthRouter(cfg.readiness))
	if cfg.metricsHandler != nil {
		r.Handle("/metrics", cfg.metricsHandler)
	}
	r.Mount("/v1", v1.Router(svc))

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.DebugContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
