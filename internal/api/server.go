package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Thilas/plex-betaseries-webhook/internal/api/handlers"
	"github.com/Thilas/plex-betaseries-webhook/internal/api/middleware"
	"github.com/Thilas/plex-betaseries-webhook/internal/config"
	"github.com/Thilas/plex-betaseries-webhook/internal/controllers"
	"github.com/Thilas/plex-betaseries-webhook/internal/healthcheck"
	"github.com/Thilas/plex-betaseries-webhook/internal/services/betaseries"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	bs *betaseries.Client,
	manager *controllers.Manager,
	health *healthcheck.HealthCheck,
	registry *prometheus.Registry,
	logger *logrus.Logger,
) *Server {
	s := &Server{logger: logger}

	router := chi.NewRouter()
	router.Use(middleware.Logging(logger))
	router.Use(middleware.NewMetrics(registry).Handler)

	// Authentication flow and webhook, both behind principal resolution.
	// Principal resolution may call BetaSeries, so it is scoped to these
	// routes only.
	webhookHandler := handlers.NewWebhookHandler(cfg, bs, manager, logger)
	router.Group(func(r chi.Router) {
		r.Use(middleware.Principal(bs))
		r.Get("/", webhookHandler.Authorize)
		r.Post("/", webhookHandler.Webhook)
	})

	router.Method(http.MethodGet, "/health", handlers.NewHealthHandler(health, logger))
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
