// Package auth implements the framework's ingress security pipeline:
// structural sanitization, permission authorization, and JWT/JWKS-backed
// token verification (spec §4.1-4.3).
package auth

import (
	"encoding/json"
	"fmt"

	"github.com/cooplan/amqp-api/internal/domain"
)

// Sanitize validates the structural shape of a decoded request and its
// declared action against an element's whitelist (spec §4.3).
//
// It does not cross-check header.element against the receiving element's
// name; that contract is enforced implicitly because each queue is
// consumed by exactly one element.
func Sanitize(raw map[string]interface{}, element *domain.InputElement) (*domain.Request, error) {
	header, err := extractHeader(raw)
	if err != nil {
		return nil, err
	}

	if !element.AllowsAction(header.Action) {
		return nil, domain.NewError(domain.KindSanitizationFailure,
			fmt.Sprintf("invalid action detected: %s", header.Action))
	}

	return domain.NewRequest(raw, header), nil
}

func extractHeader(raw map[string]interface{}) (domain.RequestHeader, error) {
	rawHeader, ok := raw["header"]
	if !ok {
		return domain.RequestHeader{}, domain.NewError(domain.KindMalformedRequest, "request is missing the \"header\" field")
	}

	data, err := json.Marshal(rawHeader)
	if err != nil {
		return domain.RequestHeader{}, domain.NewErrorWithCause(domain.KindMalformedRequest, "request header is not a JSON object", err)
	}

	var header domain.RequestHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return domain.RequestHeader{}, domain.NewErrorWithCause(domain.KindMalformedRequest, "request header failed to deserialize", err)
	}

	if header.Token == "" || header.Element == "" || header.Action == "" {
		return domain.RequestHeader{}, domain.NewError(domain.KindMalformedRequest, "request header is missing token, element, or action")
	}

	return header, nil
}
