// Package http provides the HTTP servers, routing and shared middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/blog/internal/config"
	"github.com/allisson/blog/internal/metrics"
	postHTTP "github.com/allisson/blog/internal/post/http"
)

const readinessTimeout = 3 * time.Second

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	router   *gin.Engine
	logger   *slog.Logger
	database HealthChecker
	secrets  HealthChecker
	stop     context.CancelFunc
}

// NewServer creates a new HTTP server. database and secrets are probed by /ready.
func NewServer(
	database HealthChecker,
	secrets HealthChecker,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		logger:   logger,
		database: database,
		secrets:  secrets,
		stop:     func() {},
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with middleware, health endpoints and the post pages.
// meterProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	cfg *config.Config,
	postHandler *postHTTP.PostHandler,
	meterProvider metric.MeterProvider,
) {
	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	var writeMiddleware []gin.HandlerFunc
	if cfg.RateLimitEnabled {
		writeMiddleware = append(writeMiddleware,
			RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	postHandler.RegisterRoutes(router, writeMiddleware...)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured: call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.stop()
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
// GET /health
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler probes the database and the secret store.
// GET /ready
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	components := map[string]string{
		"database": s.probe(ctx, "database", s.database),
		"secrets":  s.probe(ctx, "secrets", s.secrets),
	}

	status, code := "ready", http.StatusOK
	for _, result := range components {
		if result != "ok" {
			status, code = "not_ready", http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": components,
	})
}

func (s *Server) probe(ctx context.Context, name string, checker HealthChecker) string {
	if checker == nil {
		return "error"
	}
	if err := checker.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
		return "error"
	}
	return "ok"
}
