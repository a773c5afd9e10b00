package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cooplan/amqp-api/internal/domain"
)

func testElement() *domain.InputElement {
	return domain.NewInputElement("orders", []string{"create"}, nil, 4)
}

func TestSanitize_Success(t *testing.T) {
	raw := map[string]interface{}{
		"header": map[string]interface{}{
			"token":   "abc",
			"element": "orders",
			"action":  "create",
		},
		"name": "widget",
	}

	request, err := Sanitize(raw, testElement())
	require.NoError(t, err)
	assert.Equal(t, "create", request.Header().Action)
	assert.Equal(t, "widget", request.Fields()["name"])
}

func TestSanitize_MissingHeader(t *testing.T) {
	_, err := Sanitize(map[string]interface{}{"name": "widget"}, testElement())

	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedRequest, domain.KindOf(err))
}

func TestSanitize_DisallowedAction(t *testing.T) {
	raw := map[string]interface{}{
		"header": map[string]interface{}{
			"token":   "abc",
			"element": "orders",
			"action":  "delete",
		},
	}

	_, err := Sanitize(raw, testElement())
	require.Error(t, err)
	assert.Equal(t, domain.KindSanitizationFailure, domain.KindOf(err))
}

func TestSanitize_IncompleteHeader(t *testing.T) {
	raw := map[string]interface{}{
		"header": map[string]interface{}{
			"token":  "abc",
			"action": "create",
		},
	}

	_, err := Sanitize(raw, testElement())
	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedRequest, domain.KindOf(err))
}
