package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputElement_AllowsAction(t *testing.T) {
	element := NewInputElement("orders", []string{"create", "update"}, nil, 4)

	assert.True(t, element.AllowsAction("create"))
	assert.True(t, element.AllowsAction("update"))
	assert.False(t, element.AllowsAction("delete"))
}

func TestNewInputElement_DefaultsAreZeroValue(t *testing.T) {
	element := NewInputElement("orders", nil, nil, 1)

	assert.Equal(t, QueueDeclareSpec{}, element.QueueDeclare)
	assert.Equal(t, QoSSpec{}, element.QoS)
	assert.Equal(t, 1, element.MaxConcurrentRequests)
}
