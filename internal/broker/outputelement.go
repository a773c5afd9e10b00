package broker

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cooplan/amqp-api/internal/domain"
	"github.com/cooplan/amqp-api/internal/observability"
)

// OutputElementTask owns one egress publisher queue, draining messages
// fanned out to it by the EgressRouter and publishing each on the
// configured exchange (spec §4.6).
//
// The original implementation hot-looped on a closed receiver; this one
// exits as soon as the inbound channel is closed and drained, since a
// closed channel never yields a fresh value again (spec §9 redesign
// flag).
type OutputElementTask struct {
	element *domain.OutputElement
	channel *amqp.Channel
	logger  observability.Logger
	metrics *observability.Metrics
}

// NewOutputElementTask builds a task for element, publishing over channel.
func NewOutputElementTask(element *domain.OutputElement, channel *amqp.Channel, logger observability.Logger, metrics *observability.Metrics) *OutputElementTask {
	return &OutputElementTask{
		element: element,
		channel: channel,
		logger:  logger.With(observability.String("element", element.Name)),
		metrics: metrics,
	}
}

// Declare applies the element's queue.declare.
func (t *OutputElementTask) Declare() error {
	qd := t.element.QueueDeclare
	if _, err := t.channel.QueueDeclare(t.element.QueueName, qd.Durable, qd.AutoDelete, qd.Exclusive, qd.NoWait, amqp.Table(qd.Arguments)); err != nil {
		return domain.NewErrorWithCause(domain.KindAMQPFailure, "failed to declare output queue "+t.element.QueueName, err)
	}
	return nil
}

// Run drains inbound until ctx is cancelled or the channel is closed,
// publishing each message it receives.
func (t *OutputElementTask) Run(ctx context.Context, inbound <-chan interface{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case message, ok := <-inbound:
			if !ok {
				t.logger.Info("output element channel closed, stopping")
				return
			}
			t.publish(ctx, message)
		}
	}
}

func (t *OutputElementTask) publish(ctx context.Context, message interface{}) {
	start := time.Now()

	body, err := json.Marshal(message)
	if err != nil {
		t.metrics.PublishErrors.WithLabelValues(t.element.Name, "marshal").Inc()
		t.logger.Error("failed to marshal output message", observability.Err(err))
		return
	}

	err = t.channel.PublishWithContext(ctx, t.element.PublishExchange, t.element.QueueName,
		t.element.PublishMandatory, t.element.PublishImmediate, amqp.Publishing{
			ContentType: t.element.PublishProperties.ContentType,
			Body:        body,
		})
	t.metrics.PublishDuration.WithLabelValues(t.element.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		t.metrics.PublishErrors.WithLabelValues(t.element.Name, "publish").Inc()
		t.metrics.PublishTotal.WithLabelValues(t.element.Name, "error").Inc()
		t.logger.Error("failed to publish output message", observability.Err(err))
		return
	}
	t.metrics.PublishTotal.WithLabelValues(t.element.Name, "success").Inc()
}
