package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cooplan/amqp-api/internal/domain"
)

const testKid = "test-kid"

func newTestKeySet(t *testing.T) (*rsa.PrivateKey, jwk.Set) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pub, err := jwk.Import(privateKey.Public())
	require.NoError(t, err)
	require.NoError(t, pub.Set(jwk.KeyIDKey, testKid))
	require.NoError(t, pub.Set(jwk.AlgorithmKey, "RS256"))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	return privateKey, set
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":         "user-1",
		"permissions": []interface{}{"create:orders"},
		"aud":         "orders-api",
		"iss":         "https://issuer.example",
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
}

func TestRSAJWTValidator_ValidatesSuccessfully(t *testing.T) {
	key, set := newTestKeySet(t)
	validator := NewRSAJWTValidator(set, []string{"orders-api"}, []string{"https://issuer.example"})

	raw := signToken(t, key, testKid, baseClaims())

	token, err := validator.Validate(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, token.HasPermission("create:orders"))
}

func TestRSAJWTValidator_MissingKid(t *testing.T) {
	key, set := newTestKeySet(t)
	validator := NewRSAJWTValidator(set, nil, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, baseClaims())
	delete(token.Header, "kid")
	raw, err := token.SignedString(key)
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), raw)
	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedToken, domain.KindOf(err))
}

func TestRSAJWTValidator_UnknownKid(t *testing.T) {
	key, set := newTestKeySet(t)
	validator := NewRSAJWTValidator(set, nil, nil)

	raw := signToken(t, key, "some-other-kid", baseClaims())

	_, err := validator.Validate(context.Background(), raw)
	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedToken, domain.KindOf(err))
}

func TestRSAJWTValidator_ExpiredToken(t *testing.T) {
	key, set := newTestKeySet(t)
	validator := NewRSAJWTValidator(set, nil, nil)

	claims := baseClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	raw := signToken(t, key, testKid, claims)

	_, err := validator.Validate(context.Background(), raw)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidToken, domain.KindOf(err))
}

func TestRSAJWTValidator_AudienceNotAccepted(t *testing.T) {
	key, set := newTestKeySet(t)
	validator := NewRSAJWTValidator(set, []string{"other-api"}, nil)

	raw := signToken(t, key, testKid, baseClaims())

	_, err := validator.Validate(context.Background(), raw)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidToken, domain.KindOf(err))
}

func TestRSAJWTValidator_IssuerNotAccepted(t *testing.T) {
	key, set := newTestKeySet(t)
	validator := NewRSAJWTValidator(set, nil, []string{"https://someone-else.example"})

	raw := signToken(t, key, testKid, baseClaims())

	_, err := validator.Validate(context.Background(), raw)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidToken, domain.KindOf(err))
}

func TestRSAJWTValidator_UndecodableToken(t *testing.T) {
	_, set := newTestKeySet(t)
	validator := NewRSAJWTValidator(set, nil, nil)

	_, err := validator.Validate(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedToken, domain.KindOf(err))
}
