// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eb2niw-assessor/internal/assessment"
	"eb2niw-assessor/internal/common/config"
	"eb2niw-assessor/internal/common/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	routeAssess  = "assess"
	routeHistory = "history"
	routeInfo    = "info"
	routeConfig  = "config"
	routeStats   = "stats"

	maxBodyBytes = 1 << 20
)

// IdentityResolver turns an Authorization header into a user id. It is implemented by
// auth.KeycloakClient.
type IdentityResolver interface {
	ResolveUserID(ctx context.Context, authorization string) (string, error)
}

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Server exposes the assessment service over HTTP.
type Server struct {
	service  *assessment.Service
	identity IdentityResolver
	limiter  *RateLimiter
	limits   config.RateLimits
	origins  []string
	checks   map[string]ReadinessCheck
	logger   logger.Logger
	now      func() time.Time

	httpServer *http.Server
}

type Option func(*Server)

func WithIdentityResolver(r IdentityResolver) Option { return func(s *Server) { s.identity = r } }

func WithRateLimiter(l *RateLimiter, limits config.RateLimits) Option {
	return func(s *Server) {
		s.limiter = l
		s.limits = limits
	}
}

func WithCORSOrigins(origins []string) Option { return func(s *Server) { s.origins = origins } }

// WithReadinessCheck registers a dependency probed by /ready.
func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

func NewServer(service *assessment.Service, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		service: service,
		checks:  make(map[string]ReadinessCheck),
		logger:  log.WithFields(map[string]interface{}{"component": "http-api"}),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routing table with its middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "POST /api/v1/eligibility/assess", routeAssess, s.limits.Assess, s.handleAssess)
	s.route(mux, "GET /api/v1/eligibility/history/{userId}", routeHistory, s.limits.History, s.handleHistory)
	s.route(mux, "GET /api/v1/eligibility/info", routeInfo, s.limits.Info, s.handleInfo)
	s.route(mux, "GET /api/v1/eligibility/config", routeConfig, 0, s.handleConfig)
	s.route(mux, "GET /api/v1/eligibility/stats", routeStats, 0, s.handleStats)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleNotFound)

	return requestLogging(s.logger)(cors(s.origins)(mux))
}

func (s *Server) route(mux *http.ServeMux, pattern, name string, limit int, h http.HandlerFunc) {
	mux.Handle(pattern, instrument(name, s.rateLimited(name, limit, h)))
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe(cfg config.ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}

	s.logger.Info("HTTP server listening", map[string]interface{}{"address": cfg.Address})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
