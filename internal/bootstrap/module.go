// Package bootstrap wires the framework's ambient stack (configuration,
// logging, metrics, tracing, JWKS-backed authorization, the shared AMQP
// connection) via Uber Fx, mirroring the teacher's own internal/infra/fx
// module layout (spec §4.8-4.9).
package bootstrap

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"github.com/cooplan/amqp-api/internal/auth"
	"github.com/cooplan/amqp-api/internal/broker"
	"github.com/cooplan/amqp-api/internal/config"
	"github.com/cooplan/amqp-api/internal/observability"
)

// Module provides every ambient and domain dependency a host service
// needs: configuration, observability, authorization, and the shared
// AMQP connection/router. A host service adds its own fx.Provide for
// input/output elements and an fx.Invoke to start them.
var Module = fx.Options(
	ConfigModule,
	ObservabilityModule,
	AuthModule,
	BrokerModule,
	StateTrackerModule,
)

// ConfigModule loads environment configuration. The elements file is not
// loaded here; a host service provides it itself.
var ConfigModule = fx.Options(
	fx.Provide(config.Load),
)

// ObservabilityModule provides structured logging, Prometheus metrics,
// and OpenTelemetry tracing.
var ObservabilityModule = fx.Options(
	fx.Provide(observability.NewLogger),
	fx.Provide(func() *observability.Metrics { return observability.NewMetrics() }),
	fx.Provide(provideTracer),
)

func provideTracer(lc fx.Lifecycle, cfg *config.Env, logger observability.Logger) (*sdktrace.TracerProvider, error) {
	tp, err := observability.InitTracer(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down tracer")
			return tp.Shutdown(ctx)
		},
	})
	return tp, nil
}

// AuthModule fetches the JWKS once at startup and provides the
// TokenValidator and Authorizer built from it.
var AuthModule = fx.Options(
	fx.Provide(provideJWKSFetcher),
	fx.Provide(provideTokenValidator),
	fx.Provide(auth.NewAuthorizer),
)

func provideJWKSFetcher(cfg *config.Env) *auth.JWKSFetcher {
	return auth.NewJWKSFetcher(cfg.JWKSURI, nil)
}

func provideTokenValidator(lc fx.Lifecycle, cfg *config.Env, fetcher *auth.JWKSFetcher, logger observability.Logger) (auth.TokenValidator, error) {
	keySet, err := fetcher.Fetch(context.Background())
	if err != nil {
		return nil, err
	}
	logger.Info("fetched JWKS", observability.String("uri", cfg.JWKSURI))

	validator := auth.NewRSAJWTValidator(keySet, cfg.Audiences(), cfg.Issuers())
	_ = lc
	return validator, nil
}

// BrokerModule provides the shared AMQP connection manager, closed on
// shutdown, and the egress router.
var BrokerModule = fx.Options(
	fx.Provide(provideConnectionManager),
	fx.Provide(func() *broker.EgressRouter { return broker.NewEgressRouter() }),
)

func provideConnectionManager(lc fx.Lifecycle, cfg *config.Env, logger observability.Logger) (*broker.ConnectionManager, error) {
	manager := broker.NewConnectionManager(cfg.ConnectionURI(), logger)
	if err := manager.Connect(); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("closing AMQP connection")
			return manager.Close()
		},
	})
	return manager, nil
}
