// Package adminhttp is the framework's small control-plane HTTP surface:
// liveness/readiness probes, Prometheus scrape, and a read-only listing
// of the configured input/output elements (SPEC_FULL.md supplemented
// feature — the framework otherwise speaks AMQP exclusively).
package adminhttp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cooplan/amqp-api/internal/broker"
	"github.com/cooplan/amqp-api/internal/config"
	"github.com/cooplan/amqp-api/internal/observability"
)

// Server hosts the admin HTTP surface on its own bind address, separate
// from the AMQP ingress/egress path.
type Server struct {
	httpServer *http.Server
	logger     observability.Logger
}

// NewServer builds the admin HTTP surface, wiring health checks against
// manager's AMQP connection and a read-only elements listing.
func NewServer(cfg *config.Env, elements *config.ElementsFile, manager *broker.ConnectionManager, metrics *observability.Metrics, logger observability.Logger) *Server {
	health := healthcheck.NewMetricsHandler(metrics.Registry, cfg.ServiceName)
	health.AddReadinessCheck("amqp-connection", func() error {
		if _, err := manager.Channel(); err != nil {
			return err
		}
		return nil
	})

	router := chi.NewRouter()
	router.Get("/healthz", health.LiveEndpoint)
	router.Get("/readyz", health.ReadyEndpoint)
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	router.With(httprate.LimitByIP(10, time.Minute)).Get("/admin/elements", elementsHandler(elements))

	addr := fmt.Sprintf("%s:%d", cfg.AdminBindAddress, cfg.AdminPort)
	return &Server{
		httpServer: &http.Server{Addr: addr, Handler: router},
		logger:     logger.With(observability.String("component", "adminhttp")),
	}
}

// Start serves in the background and logs a fatal-class error if the
// listener fails for any reason other than a clean shutdown.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("admin http server stopped unexpectedly", observability.Err(err))
		}
	}()
	s.logger.Info("admin http server listening", observability.String("addr", s.httpServer.Addr))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
