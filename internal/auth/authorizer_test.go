package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cooplan/amqp-api/internal/domain"
)

type stubValidator struct {
	token *domain.Token
	err   error
}

func (s stubValidator) Validate(context.Context, string) (*domain.Token, error) {
	return s.token, s.err
}

func TestAuthorizer_Authorize_Success(t *testing.T) {
	token, err := domain.NewToken(map[string]interface{}{"permissions": []interface{}{"create:orders"}})
	require.NoError(t, err)

	authorizer := NewAuthorizer(stubValidator{token: token})
	request := domain.NewRequest(nil, domain.RequestHeader{Token: "tok", Element: "orders", Action: "create"})

	authorized, err := authorizer.Authorize(context.Background(), request)
	require.NoError(t, err)
	got, ok := authorized.AuthorizedToken()
	require.True(t, ok)
	assert.Same(t, token, got)
}

func TestAuthorizer_Authorize_MissingPermission(t *testing.T) {
	token, err := domain.NewToken(map[string]interface{}{"permissions": []interface{}{"read:orders"}})
	require.NoError(t, err)

	authorizer := NewAuthorizer(stubValidator{token: token})
	request := domain.NewRequest(nil, domain.RequestHeader{Token: "tok", Element: "orders", Action: "create"})

	_, err = authorizer.Authorize(context.Background(), request)
	require.Error(t, err)
	assert.Equal(t, domain.KindPermissionNotFound, domain.KindOf(err))
}

func TestAuthorizer_Authorize_ValidatorFails(t *testing.T) {
	authorizer := NewAuthorizer(stubValidator{err: domain.NewError(domain.KindInvalidToken, "bad signature")})
	request := domain.NewRequest(nil, domain.RequestHeader{Token: "tok", Element: "orders", Action: "create"})

	_, err := authorizer.Authorize(context.Background(), request)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidToken, domain.KindOf(err))
}
