package broker

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cooplan/amqp-api/internal/domain"
)

// Replier publishes a RequestResult back to a delivery's reply_to queue
// over the default exchange, correlated by correlation_id (spec §4.5).
type Replier struct {
	channel *amqp.Channel
}

// NewReplier builds a Replier that publishes over channel.
func NewReplier(channel *amqp.Channel) *Replier {
	return &Replier{channel: channel}
}

// Reply publishes result to replyTo, default-exchange routed, with
// correlationID attached so the original requester can match it back up.
func (r *Replier) Reply(ctx context.Context, replyTo, correlationID string, result domain.RequestResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return domain.NewErrorWithCause(domain.KindInternalFailure, "failed to marshal reply body", err)
	}

	err = r.channel.PublishWithContext(ctx, "", replyTo, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		Body:          body,
	})
	if err != nil {
		return domain.NewErrorWithCause(domain.KindAMQPFailure, "failed to publish reply to "+replyTo, err)
	}
	return nil
}
