// Command exampleservice demonstrates hosting the framework: it wires one
// input element ("orders.create") whose handler forwards accepted orders
// to a logic channel, and one output element ("orders.events") that a
// background goroutine publishes those same orders to, fanned out
// through the EgressRouter.
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/cooplan/amqp-api/internal/bootstrap"
	"github.com/cooplan/amqp-api/internal/broker"
	"github.com/cooplan/amqp-api/internal/config"
	"github.com/cooplan/amqp-api/internal/domain"
	"github.com/cooplan/amqp-api/internal/observability"
)

const (
	ordersInputQueue   = "orders.create"
	ordersOutputQueue  = "orders.events"
	ordersCreateAction = "create"
)

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Provide(loadElements),
		fx.Provide(newLogicChannel),
		fx.Provide(provideLogicSender),
		fx.Provide(newOrdersInputElement),
		fx.Provide(newOrdersOutputElement),
		fx.Invoke(runOrdersPipeline),
		fx.Invoke(bootstrap.StartInputElement),
		fx.Invoke(bootstrap.StartOutputElement),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("exampleservice: startup failed: %v", err)
	}
	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(shutdownCtx); err != nil {
		log.Fatalf("exampleservice: shutdown failed: %v", err)
	}
}

func loadElements(cfg *config.Env) (*config.ElementsFile, error) {
	return config.LoadElementsFile(cfg.ElementsConfigPath)
}

// newLogicChannel carries authorized orders from the input element's
// handler to the background pipeline that republishes them as events.
func newLogicChannel() chan interface{} {
	return make(chan interface{}, 256)
}

// provideLogicSender narrows the bidirectional logic channel to the
// send-only view StartInputElement's handler plumbing expects.
func provideLogicSender(logic chan interface{}) chan<- interface{} {
	return logic
}

// newOrdersInputElement builds the "orders.create" input element from its
// entry in the elements file: the queue declare/QoS/consume/ack/reject
// wiring is config-driven, while the action whitelist and handler are
// this host service's own code (spec §3's registration callable).
func newOrdersInputElement(elements *config.ElementsFile) (*domain.InputElement, error) {
	entry, ok := elements.InputByName(ordersInputQueue)
	if !ok {
		return nil, fmt.Errorf("exampleservice: elements file is missing input element %q", ordersInputQueue)
	}

	handler := func(_ context.Context, request *domain.Request, logicRequests chan<- interface{}) domain.RequestResult {
		select {
		case logicRequests <- request.Fields():
		default:
		}
		return domain.NewOk(map[string]interface{}{"accepted": true})
	}

	return entry.BuildInputElement([]string{ordersCreateAction}, handler), nil
}

func newOrdersOutputElement(elements *config.ElementsFile) (*domain.OutputElement, error) {
	entry, ok := elements.OutputByName(ordersOutputQueue)
	if !ok {
		return nil, fmt.Errorf("exampleservice: elements file is missing output element %q", ordersOutputQueue)
	}
	return entry.BuildOutputElement(), nil
}

// runOrdersPipeline drains the logic channel and routes each accepted
// order to the "orders.events" output element.
func runOrdersPipeline(lc fx.Lifecycle, logic chan interface{}, router *broker.EgressRouter, logger observability.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				for fields := range logic {
					if err := router.Route(ctx, ordersOutputQueue, fields); err != nil {
						logger.Error("failed to route order event", observability.Err(err))
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
