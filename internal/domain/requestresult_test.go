package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestResult_OkRoundTrip(t *testing.T) {
	result := NewOk(map[string]interface{}{"id": "o1"})

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Ok":{"id":"o1"}}`, string(data))

	var decoded RequestResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.IsOk())
	value, ok := decoded.Value()
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"id": "o1"}, value)
}

func TestRequestResult_ErrRoundTrip(t *testing.T) {
	result := NewErr(KindMalformedRequest, "unknown action")

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Err":{"kind":"MalformedRequest","message":"unknown action"}}`, string(data))

	var decoded RequestResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.IsOk())
	errValue, ok := decoded.Err()
	require.True(t, ok)
	assert.Equal(t, KindMalformedRequest, errValue.Kind)
	assert.Equal(t, "unknown action", errValue.Message)
}

func TestNewErr_NarrowsUnknownKindToInternalFailure(t *testing.T) {
	result := NewErr(KindAMQPFailure, "declare failed")

	errValue, ok := result.Err()
	require.True(t, ok)
	assert.Equal(t, KindInternalFailure, errValue.Kind)
}

func TestErrFromError_MapsDomainErrorKind(t *testing.T) {
	result := ErrFromError(NewError(KindSanitizationFailure, "bad action"))

	errValue, ok := result.Err()
	require.True(t, ok)
	assert.Equal(t, KindInternalFailure, errValue.Kind)

	result = ErrFromError(NewError(KindMalformedRequest, "bad json"))
	errValue, ok = result.Err()
	require.True(t, ok)
	assert.Equal(t, KindMalformedRequest, errValue.Kind)
}
