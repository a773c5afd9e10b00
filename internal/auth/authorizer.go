package auth

import (
	"context"

	"github.com/cooplan/amqp-api/internal/domain"
)

// TokenValidator verifies a compact JWT and returns a Token (spec §4.1).
type TokenValidator interface {
	Validate(ctx context.Context, rawToken string) (*domain.Token, error)
}

// Authorizer combines header-derived required-permission computation with
// a TokenValidator (spec §4.2).
type Authorizer struct {
	validator TokenValidator
}

// NewAuthorizer builds an Authorizer around validator.
func NewAuthorizer(validator TokenValidator) *Authorizer {
	return &Authorizer{validator: validator}
}

// Authorize verifies request's bearer token and checks it carries the
// permission its header's action+element imply, returning a copy of
// request with the verified Token attached.
func (a *Authorizer) Authorize(ctx context.Context, request *domain.Request) (*domain.Request, error) {
	header := request.Header()

	token, err := a.validator.Validate(ctx, header.Token)
	if err != nil {
		return nil, err
	}

	required := domain.RequiredPermission(header.Action, header.Element)
	if !token.HasPermission(required) {
		return nil, domain.NewError(domain.KindPermissionNotFound,
			"permission '"+required+"' could not be found")
	}

	return request.WithAuthorizedToken(token), nil
}
