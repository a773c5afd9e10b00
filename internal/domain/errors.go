// Package domain contains the core types of the broker request/response
// framework: tokens, requests, results, and the elements that bind a broker
// queue to handler logic.
package domain

import "errors"

// Kind is the closed set of abstract error kinds the framework produces
// (spec §7). Every Error carries exactly one Kind.
type Kind string

const (
	// KindAPIConnectionFailure marks a failure to connect to, or open a
	// channel on, the broker.
	KindAPIConnectionFailure Kind = "ApiConnectionFailure"
	// KindAMQPFailure marks a failed broker protocol operation (declare,
	// qos, consume, ack, reject, publish).
	KindAMQPFailure Kind = "AmqpFailure"
	// KindMalformedRequest marks a delivery that failed to decode, parse,
	// sanitize, or authorize.
	KindMalformedRequest Kind = "MalformedRequest"
	// KindMalformedToken marks a token that cannot be decoded or is missing
	// a kid, whose kid has no JWK or whose JWK is not a usable RSA key, or
	// whose permission claim is not a list of strings.
	KindMalformedToken Kind = "MalformedToken"
	// KindTokenDecodingFailure marks a token whose JWK declares no signing
	// algorithm, or whose claims carry no usable permission list.
	KindTokenDecodingFailure Kind = "TokenDecodingFailure"
	// KindInvalidToken marks a token that failed signature, expiry,
	// audience, or issuer verification.
	KindInvalidToken Kind = "InvalidToken"
	// KindPermissionNotFound marks a verified token lacking the required
	// permission.
	KindPermissionNotFound Kind = "PermissionNotFound"
	// KindSanitizationFailure marks a request whose action is not in an
	// element's whitelist.
	KindSanitizationFailure Kind = "SanitizationFailure"
	// KindAutoConfigFailure marks a failure to read or parse configuration.
	KindAutoConfigFailure Kind = "AutoConfigFailure"
	// KindInternalFailure marks any other unexpected internal failure.
	KindInternalFailure Kind = "InternalFailure"
)

// Error is the framework's error type: a Kind plus a human-readable
// message plus an optional wrapped cause, implementing Unwrap/Is so
// callers can use errors.Is/errors.As against a Kind.
type Error struct {
	Kind    Kind
	Message string

	cause error
}

// NewError builds an Error with no wrapped cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorWithCause builds an Error wrapping cause, enabling errors.Is/As
// traversal through it.
func NewErrorWithCause(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, domain.NewError(domain.KindInvalidToken, "")) works as a
// Kind match regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// AsError returns err as *Error if it is or wraps one.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindInternalFailure if err is not a
// *Error. Useful at the boundary where an error must be mapped to a wire
// RequestResult kind (§3: only MalformedRequest and InternalFailure are
// wire-visible).
func KindOf(err error) Kind {
	if de, ok := AsError(err); ok {
		return de.Kind
	}
	return KindInternalFailure
}
