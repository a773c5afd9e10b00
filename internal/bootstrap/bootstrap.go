package bootstrap

import (
	"context"

	"go.uber.org/fx"

	"github.com/cooplan/amqp-api/internal/auth"
	"github.com/cooplan/amqp-api/internal/broker"
	"github.com/cooplan/amqp-api/internal/domain"
	"github.com/cooplan/amqp-api/internal/observability"
)

// StateTrackerModule supplies a domain.PrometheusStateTracker, scoped to
// the shared metrics registry, as the default StateTracker: the framework
// is runnable end-to-end without a host-supplied one. A host service
// overrides it with fx.Decorate or fx.Replace to wire a real
// state-reporting backend, or fx.Replace(domain.NoopStateTracker{}) to
// discard reports entirely.
var StateTrackerModule = fx.Options(
	fx.Provide(func(metrics *observability.Metrics) domain.StateTracker {
		return domain.NewPrometheusStateTracker(metrics.Registry)
	}),
)

// StartInputElement declares element's queue and runs its
// IngressDispatcher for the lifetime of the fx application.
func StartInputElement(
	lc fx.Lifecycle,
	manager *broker.ConnectionManager,
	authorizer *auth.Authorizer,
	stateTracker domain.StateTracker,
	logger observability.Logger,
	metrics *observability.Metrics,
	logicRequests chan<- interface{},
	element *domain.InputElement,
) error {
	channel, err := manager.Channel()
	if err != nil {
		return err
	}
	replyChannel, err := manager.Channel()
	if err != nil {
		return err
	}
	replier := broker.NewReplier(replyChannel)

	dispatcher := broker.NewIngressDispatcher(element, channel, authorizer, replier, stateTracker, logger, metrics, logicRequests)
	deliveries, err := dispatcher.Declare()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go dispatcher.Run(ctx, deliveries)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			_ = channel.Close()
			_ = replyChannel.Close()
			return nil
		},
	})
	return nil
}

// StartOutputElement declares element's queue, registers it with router,
// and runs its OutputElementTask for the lifetime of the fx application.
func StartOutputElement(
	lc fx.Lifecycle,
	manager *broker.ConnectionManager,
	router *broker.EgressRouter,
	logger observability.Logger,
	metrics *observability.Metrics,
	element *domain.OutputElement,
) error {
	channel, err := manager.Channel()
	if err != nil {
		return err
	}

	task := broker.NewOutputElementTask(element, channel, logger, metrics)
	if err := task.Declare(); err != nil {
		return err
	}
	inbound := router.Register(element.Name)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go task.Run(ctx, inbound)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			_ = channel.Close()
			return nil
		},
	})
	return nil
}
