// Command apiserver is the framework's own minimal host: it validates
// configuration and an elements file, brings up the shared AMQP
// connection and JWKS-backed authorizer, and serves the admin HTTP
// surface (health, metrics, elements listing), without registering any
// input/output elements of its own. Services that need actual request
// handling import the framework's packages directly and follow
// cmd/exampleservice's pattern instead of running this binary.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/cooplan/amqp-api/internal/adminhttp"
	"github.com/cooplan/amqp-api/internal/auth"
	"github.com/cooplan/amqp-api/internal/bootstrap"
	"github.com/cooplan/amqp-api/internal/broker"
	"github.com/cooplan/amqp-api/internal/config"
	"github.com/cooplan/amqp-api/internal/observability"
)

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Provide(loadElements),
		fx.Invoke(func(*auth.Authorizer) {}),
		fx.Invoke(runAdminServer),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("apiserver: startup failed: %v", err)
	}
	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(shutdownCtx); err != nil {
		log.Fatalf("apiserver: shutdown failed: %v", err)
	}
}

func loadElements(cfg *config.Env) (*config.ElementsFile, error) {
	return config.LoadElementsFile(cfg.ElementsConfigPath)
}

func runAdminServer(
	lc fx.Lifecycle,
	cfg *config.Env,
	elements *config.ElementsFile,
	manager *broker.ConnectionManager,
	metrics *observability.Metrics,
	logger observability.Logger,
) {
	admin := adminhttp.NewServer(cfg, elements, manager, metrics, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			admin.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return admin.Shutdown(ctx)
		},
	})
}
