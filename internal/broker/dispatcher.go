package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cooplan/amqp-api/internal/auth"
	"github.com/cooplan/amqp-api/internal/domain"
	"github.com/cooplan/amqp-api/internal/observability"
)

// IngressDispatcher consumes one input element's queue, sanitizes and
// authorizes each delivery, dispatches it to the element's Handler under
// a bounded admission-control semaphore, and replies on reply_to/
// correlation_id when present (spec §4.4).
//
// Concurrency is bounded by a counting semaphore rather than the
// busy-wait atomic-counter loop the original implementation used: a full
// semaphore simply blocks the consumer goroutine, throttling delivery via
// QoS prefetch instead of spinning a CPU core (spec §9 redesign flag).
type IngressDispatcher struct {
	element       *domain.InputElement
	channel       *amqp.Channel
	authorizer    *auth.Authorizer
	replier       *Replier
	stateTracker  domain.StateTracker
	logger        observability.Logger
	metrics       *observability.Metrics
	logicRequests chan<- interface{}

	sem chan struct{}
}

// NewIngressDispatcher builds a dispatcher for element, consuming over
// channel and reporting liveness through a copy of stateTracker scoped to
// the element's name.
func NewIngressDispatcher(
	element *domain.InputElement,
	channel *amqp.Channel,
	authorizer *auth.Authorizer,
	replier *Replier,
	stateTracker domain.StateTracker,
	logger observability.Logger,
	metrics *observability.Metrics,
	logicRequests chan<- interface{},
) *IngressDispatcher {
	return &IngressDispatcher{
		element:       element,
		channel:       channel,
		authorizer:    authorizer,
		replier:       replier,
		stateTracker:  stateTracker.WithID(element.Name),
		logger:        logger.With(observability.String("element", element.Name)),
		metrics:       metrics,
		logicRequests: logicRequests,
		sem:           make(chan struct{}, element.MaxConcurrentRequests),
	}
}

// Declare applies the element's queue.declare and basic.qos, then opens
// a basic.consume delivery channel under a uniquely tagged consumer.
func (d *IngressDispatcher) Declare() (<-chan amqp.Delivery, error) {
	qd := d.element.QueueDeclare
	if _, err := d.channel.QueueDeclare(d.element.Name, qd.Durable, qd.AutoDelete, qd.Exclusive, qd.NoWait, amqp.Table(qd.Arguments)); err != nil {
		return nil, domain.NewErrorWithCause(domain.KindAMQPFailure, "failed to declare input queue "+d.element.Name, err)
	}

	qos := d.element.QoS
	if err := d.channel.Qos(qos.PrefetchCount, 0, qos.Global); err != nil {
		return nil, domain.NewErrorWithCause(domain.KindAMQPFailure, "failed to set QoS on "+d.element.Name, err)
	}

	consume := d.element.Consume
	consumerTag := fmt.Sprintf("%s#%s", d.element.Name, uuid.NewString())
	deliveries, err := d.channel.Consume(d.element.Name, consumerTag, consume.NoAck, consume.Exclusive, consume.NoLocal, consume.NoWait, amqp.Table(consume.Arguments))
	if err != nil {
		return nil, domain.NewErrorWithCause(domain.KindAMQPFailure, "failed to consume from "+d.element.Name, err)
	}
	return deliveries, nil
}

// Run drains deliveries until ctx is cancelled or the channel closes,
// dispatching each one to its own goroutine once admission control
// allows it.
func (d *IngressDispatcher) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}

			select {
			case d.sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			go func(delivery amqp.Delivery) {
				defer func() { <-d.sem }()
				d.handle(ctx, delivery)
			}(delivery)
		}
	}
}

func (d *IngressDispatcher) handle(ctx context.Context, delivery amqp.Delivery) {
	d.metrics.InflightRequests.WithLabelValues(d.element.Name).Inc()
	defer d.metrics.InflightRequests.WithLabelValues(d.element.Name).Dec()

	start := time.Now()
	result := d.process(ctx, delivery)
	d.metrics.DispatchDuration.WithLabelValues(d.element.Name).Observe(time.Since(start).Seconds())

	d.reply(ctx, delivery, result)
	d.acknowledge(delivery, result)
	d.reportState(ctx, result)
}

// process runs the sanitize -> authorize -> handle pipeline (spec
// §4.1-4.4). Sanitization and authorization failures are kept
// distinguishable from each other, both in the metric outcome label and
// in the resulting error's message, since both ultimately surface as the
// same domain.KindMalformedRequest wire result.
func (d *IngressDispatcher) process(ctx context.Context, delivery amqp.Delivery) domain.RequestResult {
	var raw map[string]interface{}
	if err := json.Unmarshal(delivery.Body, &raw); err != nil {
		d.metrics.DeliveriesTotal.WithLabelValues(d.element.Name, "malformed").Inc()
		return domain.NewErr(domain.KindMalformedRequest, "delivery body is not a JSON object")
	}

	request, err := auth.Sanitize(raw, d.element)
	if err != nil {
		d.metrics.DeliveriesTotal.WithLabelValues(d.element.Name, "sanitization_failure").Inc()
		return domain.NewErr(domain.KindMalformedRequest, err.Error())
	}

	authorized, err := d.authorizer.Authorize(ctx, request)
	if err != nil {
		d.metrics.DeliveriesTotal.WithLabelValues(d.element.Name, "authorization_failure").Inc()
		return domain.NewErr(domain.KindMalformedRequest, err.Error())
	}

	result := d.element.Handler(ctx, authorized, d.logicRequests)
	if result.IsOk() {
		d.metrics.DeliveriesTotal.WithLabelValues(d.element.Name, "success").Inc()
	} else {
		d.metrics.DeliveriesTotal.WithLabelValues(d.element.Name, "handler_failure").Inc()
	}
	return result
}

func (d *IngressDispatcher) reply(ctx context.Context, delivery amqp.Delivery, result domain.RequestResult) {
	if delivery.ReplyTo == "" {
		return
	}
	if err := d.replier.Reply(ctx, delivery.ReplyTo, delivery.CorrelationId, result); err != nil {
		d.logger.Error("failed to publish reply", observability.Err(err))
	}
}

func (d *IngressDispatcher) acknowledge(delivery amqp.Delivery, result domain.RequestResult) {
	if d.element.Consume.NoAck {
		return
	}
	if result.IsOk() {
		if err := delivery.Ack(d.element.Acknowledge.Multiple); err != nil {
			d.logger.Error("failed to ack delivery", observability.Err(err))
		}
		return
	}
	if err := delivery.Reject(d.element.Reject.Requeue); err != nil {
		d.logger.Error("failed to reject delivery", observability.Err(err))
	}
}

func (d *IngressDispatcher) reportState(ctx context.Context, result domain.RequestResult) {
	state := domain.ValidState()
	if !result.IsOk() {
		if errValue, ok := result.Err(); ok {
			state = domain.ErrorState(errValue.Message)
		}
	}
	if err := d.stateTracker.SendState(ctx, state); err != nil {
		d.logger.Warn("failed to report state", observability.Err(err))
	}
}
