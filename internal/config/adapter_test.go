package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cooplan/amqp-api/internal/domain"
)

func TestBuildInputElement_CarriesQueueSpecsFromFile(t *testing.T) {
	path := writeTempFile(t, validElementsDoc)
	doc, err := LoadElementsFile(path)
	require.NoError(t, err)

	entry, ok := doc.InputByName("orders")
	require.True(t, ok)

	handler := func(context.Context, *domain.Request, chan<- interface{}) domain.RequestResult {
		return domain.NewOk(nil)
	}
	element := entry.BuildInputElement([]string{"create"}, handler)

	assert.Equal(t, "orders", element.Name)
	assert.True(t, element.AllowsAction("create"))
	assert.False(t, element.AllowsAction("delete"))
	assert.Equal(t, 8, element.MaxConcurrentRequests)
	assert.True(t, element.QueueDeclare.Durable)
	assert.Equal(t, 10, element.QoS.PrefetchCount)
	assert.False(t, element.Reject.Requeue)
}

func TestBuildOutputElement_CarriesQueueSpecsFromFile(t *testing.T) {
	path := writeTempFile(t, validElementsDoc)
	doc, err := LoadElementsFile(path)
	require.NoError(t, err)

	entry, ok := doc.OutputByName("orders.events")
	require.True(t, ok)

	element := entry.BuildOutputElement()

	assert.Equal(t, "orders.events", element.Name)
	assert.Equal(t, "orders.events", element.QueueName)
	assert.True(t, element.QueueDeclare.Durable)
	assert.Equal(t, "application/json", element.PublishProperties.ContentType)
}

func TestElementsFile_ByNameMiss(t *testing.T) {
	doc := &ElementsFile{}

	_, ok := doc.InputByName("missing")
	assert.False(t, ok)

	_, ok = doc.OutputByName("missing")
	assert.False(t, ok)
}
