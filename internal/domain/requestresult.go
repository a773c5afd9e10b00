package domain

import (
	"encoding/json"
	"fmt"
)

// RequestResultError is the "Err" variant's payload: a wire-visible kind
// (only MalformedRequest or InternalFailure, per spec §3) plus a message.
type RequestResultError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// RequestResult is the closed tagged union a handler returns and the
// dispatcher replies with: either Ok(value) or Err(kind, message) (spec
// §3, §9 "tagged result type"). Exactly one of the two is set; use NewOk /
// NewErr to construct one, and IsOk/Value/Err to inspect it.
type RequestResult struct {
	ok       bool
	value    interface{}
	errValue *RequestResultError
}

// NewOk builds a successful RequestResult carrying value.
func NewOk(value interface{}) RequestResult {
	return RequestResult{ok: true, value: value}
}

// NewErr builds a failed RequestResult. kind must be KindMalformedRequest
// or KindInternalFailure; any other kind is narrowed to KindInternalFailure
// since those are the only two kinds the wire format carries.
func NewErr(kind Kind, message string) RequestResult {
	if kind != KindMalformedRequest && kind != KindInternalFailure {
		kind = KindInternalFailure
	}
	return RequestResult{errValue: &RequestResultError{Kind: kind, Message: message}}
}

// ErrFromError builds a failed RequestResult from an error, mapping any
// *Error's Kind down to the wire-visible MalformedRequest/InternalFailure
// pair.
func ErrFromError(err error) RequestResult {
	kind := KindOf(err)
	if kind != KindMalformedRequest {
		kind = KindInternalFailure
	}
	return NewErr(kind, err.Error())
}

// IsOk reports whether the result is the Ok variant.
func (r RequestResult) IsOk() bool {
	return r.ok
}

// Value returns the Ok payload and true, or nil and false if this is an
// Err result.
func (r RequestResult) Value() (interface{}, bool) {
	if !r.ok {
		return nil, false
	}
	return r.value, true
}

// Err returns the Err payload and true, or nil and false if this is an Ok
// result.
func (r RequestResult) Err() (*RequestResultError, bool) {
	if r.ok {
		return nil, false
	}
	return r.errValue, true
}

// MarshalJSON renders the adjacently-tagged wire shape: {"Ok": value} or
// {"Err": {"kind": ..., "message": ...}} (spec §6, §9).
func (r RequestResult) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(struct {
			Ok interface{} `json:"Ok"`
		}{Ok: r.value})
	}
	return json.Marshal(struct {
		Err *RequestResultError `json:"Err"`
	}{Err: r.errValue})
}

// UnmarshalJSON parses the adjacently-tagged wire shape produced by
// MarshalJSON.
func (r *RequestResult) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Ok  json.RawMessage     `json:"Ok"`
		Err *RequestResultError `json:"Err"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	switch {
	case envelope.Err != nil:
		r.ok = false
		r.errValue = envelope.Err
	case envelope.Ok != nil:
		var v interface{}
		if err := json.Unmarshal(envelope.Ok, &v); err != nil {
			return err
		}
		r.ok = true
		r.value = v
	default:
		return fmt.Errorf("domain: RequestResult JSON has neither Ok nor Err")
	}
	return nil
}
