package broker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cooplan/amqp-api/internal/domain"
)

func TestEgressRouter_RouteDeliversToRegisteredChannel(t *testing.T) {
	router := NewEgressRouter()
	inbound := router.Register("orders.events")

	require.NoError(t, router.Route(context.Background(), "orders.events", "hello"))

	select {
	case msg := <-inbound:
		assert.Equal(t, "hello", msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for routed message")
	}
}

func TestEgressRouter_RouteUnknownElement(t *testing.T) {
	router := NewEgressRouter()

	err := router.Route(context.Background(), "missing", "hello")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternalFailure, domain.KindOf(err))
}

func TestEgressRouter_RouteBlocksUntilContextCancelled(t *testing.T) {
	router := NewEgressRouter()
	router.Register("orders.events")

	for i := 0; i < routedCapacity; i++ {
		require.NoError(t, router.Route(context.Background(), "orders.events", i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := router.Route(ctx, "orders.events", "overflow")
	require.Error(t, err)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestEgressRouter_CloseStopsConsumers(t *testing.T) {
	router := NewEgressRouter()
	inbound := router.Register("orders.events")

	router.Close()

	_, ok := <-inbound
	assert.False(t, ok)
}

// TestEgressRouter_ConsumerGoroutineExitsOnClose spawns a goroutine
// mirroring OutputElementTask.Run's drain loop and confirms it returns
// once Close stops the channel, rather than blocking forever. TestMain's
// goleak check fails the suite if it doesn't.
func TestEgressRouter_ConsumerGoroutineExitsOnClose(t *testing.T) {
	router := NewEgressRouter()
	inbound := router.Register("orders.events")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range inbound {
		}
	}()

	require.NoError(t, router.Route(context.Background(), "orders.events", "hello"))
	router.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer goroutine did not exit after Close")
	}
}
