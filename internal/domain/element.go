package domain

import "context"

// Handler is the capability object a host service supplies per input
// element (spec §9 "dynamic handler dispatch"): given a Request and a
// sender for the host's logic-side channel, it asynchronously produces a
// RequestResult.
type Handler func(ctx context.Context, request *Request, logicRequests chan<- interface{}) RequestResult

// InputElement bundles configuration, a handler, and an action whitelist
// for one ingress queue (spec §3).
type InputElement struct {
	Name                  string
	AllowedActions        map[string]struct{}
	Handler               Handler
	MaxConcurrentRequests int

	QueueDeclare QueueDeclareSpec
	QoS          QoSSpec
	Consume      ConsumeSpec
	Acknowledge  AcknowledgeSpec
	Reject       RejectSpec
}

// NewInputElement builds an InputElement from a slice of whitelisted
// action names.
func NewInputElement(name string, allowedActions []string, handler Handler, maxConcurrentRequests int) *InputElement {
	set := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		set[a] = struct{}{}
	}
	return &InputElement{
		Name:                  name,
		AllowedActions:        set,
		Handler:               handler,
		MaxConcurrentRequests: maxConcurrentRequests,
	}
}

// AllowsAction reports whether action is in the element's whitelist.
func (e *InputElement) AllowsAction(action string) bool {
	_, ok := e.AllowedActions[action]
	return ok
}

// QueueDeclareSpec mirrors an AMQP queue.declare call.
type QueueDeclareSpec struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Arguments  map[string]interface{}
}

// QoSSpec mirrors an AMQP basic.qos call.
type QoSSpec struct {
	PrefetchCount int
	Global        bool
}

// ConsumeSpec mirrors an AMQP basic.consume call.
type ConsumeSpec struct {
	NoAck     bool
	Exclusive bool
	NoLocal   bool
	NoWait    bool
	Arguments map[string]interface{}
}

// AcknowledgeSpec mirrors an AMQP basic.ack call.
type AcknowledgeSpec struct {
	Multiple bool
}

// RejectSpec mirrors an AMQP basic.reject call.
type RejectSpec struct {
	Requeue bool
}

// OutputElement binds a name to the queue declaration and publish
// parameters of one egress publisher task (spec §3).
type OutputElement struct {
	Name string

	QueueName    string
	QueueDeclare QueueDeclareSpec

	PublishExchange   string
	PublishMandatory  bool
	PublishImmediate  bool
	PublishProperties PublishPropertiesSpec
}

// PublishPropertiesSpec mirrors the AMQP message properties attached to a
// publish.
type PublishPropertiesSpec struct {
	ContentType string
}
