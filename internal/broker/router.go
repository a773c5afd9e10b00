package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/cooplan/amqp-api/internal/domain"
)

// routedCapacity bounds each output element's inbound channel (spec §4.7).
const routedCapacity = 1024

// EgressRouter fans logic-produced messages out to each output element's
// own bounded, FIFO-preserving channel by name, so one busy element's
// backlog never head-of-line blocks another (spec §4.7).
type EgressRouter struct {
	mu       sync.RWMutex
	channels map[string]chan interface{}
}

// NewEgressRouter builds an empty router; output elements register
// themselves via Register as they start.
func NewEgressRouter() *EgressRouter {
	return &EgressRouter{channels: make(map[string]chan interface{})}
}

// Register creates (or returns the existing) inbound channel for an
// output element name.
func (r *EgressRouter) Register(name string) <-chan interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.channels[name]
	if !ok {
		ch = make(chan interface{}, routedCapacity)
		r.channels[name] = ch
	}
	return ch
}

// Route delivers message to the named output element's channel, blocking
// if that channel is full, unless ctx is cancelled first.
func (r *EgressRouter) Route(ctx context.Context, name string, message interface{}) error {
	r.mu.RLock()
	ch, ok := r.channels[name]
	r.mu.RUnlock()

	if !ok {
		return domain.NewError(domain.KindInternalFailure, fmt.Sprintf("no output element registered for %q", name))
	}

	select {
	case ch <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes every output element's channel, letting each task drain
// what remains and then stop.
func (r *EgressRouter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range r.channels {
		close(ch)
	}
}
