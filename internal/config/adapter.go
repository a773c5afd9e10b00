package config

import "github.com/cooplan/amqp-api/internal/domain"

// The InputElementConfig/OutputElementConfig types parsed from the
// elements file carry every broker-facing option (queue declare, QoS,
// consume/ack/reject, publish properties). These adapters turn that
// config into the domain specs IngressDispatcher and OutputElementTask
// consume, so the file is the single source of truth for them instead of
// being parsed and validated only to be ignored. The action whitelist and
// handler logic stay host-supplied, per spec.md §3's registration
// callables — the file has no use for Go closures.

func (d DeclareConfig) toDomain() domain.QueueDeclareSpec {
	return domain.QueueDeclareSpec{
		Durable:    d.Durable,
		AutoDelete: d.AutoDelete,
		Exclusive:  d.Exclusive,
		NoWait:     d.NoWait,
		Arguments:  d.Arguments,
	}
}

func (q QoSConfig) toDomain() domain.QoSSpec {
	return domain.QoSSpec{PrefetchCount: q.PrefetchCount, Global: q.Global}
}

func (c ConsumeConfig) toDomain() domain.ConsumeSpec {
	return domain.ConsumeSpec{
		NoAck:     c.NoAck,
		Exclusive: c.Exclusive,
		NoLocal:   c.NoLocal,
		NoWait:    c.NoWait,
		Arguments: c.Arguments,
	}
}

func (a AcknowledgeConfig) toDomain() domain.AcknowledgeSpec {
	return domain.AcknowledgeSpec{Multiple: a.Multiple}
}

func (r RejectConfig) toDomain() domain.RejectSpec {
	return domain.RejectSpec{Requeue: r.Requeue}
}

func (p PublishPropertiesConfig) toDomain() domain.PublishPropertiesSpec {
	return domain.PublishPropertiesSpec{ContentType: p.ContentType}
}

// BuildInputElement adapts c into a domain.InputElement carrying this
// entry's queue declare, QoS, consume, acknowledge, and reject specs and
// max_concurrent_requests. allowedActions and handler come from the host
// service's own registration code.
func (c InputElementConfig) BuildInputElement(allowedActions []string, handler domain.Handler) *domain.InputElement {
	element := domain.NewInputElement(c.Name, allowedActions, handler, c.MaxConcurrentRequests)
	element.QueueDeclare = c.QueueConsumer.Queue.Declare.toDomain()
	element.QoS = c.QueueConsumer.QoS.toDomain()
	element.Consume = c.QueueConsumer.Consume.toDomain()
	element.Acknowledge = c.QueueConsumer.Acknowledge.toDomain()
	element.Reject = c.QueueConsumer.Reject.toDomain()
	return element
}

// BuildOutputElement adapts c into a domain.OutputElement.
func (c OutputElementConfig) BuildOutputElement() *domain.OutputElement {
	return &domain.OutputElement{
		Name:              c.Name,
		QueueName:         c.Queue.Name,
		QueueDeclare:      c.Queue.Declare.toDomain(),
		PublishExchange:   c.Publish.Exchange,
		PublishMandatory:  c.Publish.Mandatory,
		PublishImmediate:  c.Publish.Immediate,
		PublishProperties: c.Publish.Properties.toDomain(),
	}
}

// InputByName looks up one input element's config entry by name.
func (f *ElementsFile) InputByName(name string) (InputElementConfig, bool) {
	for _, in := range f.Input {
		if in.Name == name {
			return in, true
		}
	}
	return InputElementConfig{}, false
}

// OutputByName looks up one output element's config entry by name.
func (f *ElementsFile) OutputByName(name string) (OutputElementConfig, bool) {
	for _, out := range f.Output {
		if out.Name == name {
			return out, true
		}
	}
	return OutputElementConfig{}, false
}
