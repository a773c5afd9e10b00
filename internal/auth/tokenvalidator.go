package auth

import (
	"context"
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/cooplan/amqp-api/internal/domain"
)

// RSAJWTValidator verifies RSA-signed JWTs against a JWKS fetched once at
// startup (spec §4.1). Validation never trusts the token's own "alg"
// header: the signing algorithm is always the one the resolved JWK
// declares, and the signing key is always the one named by "kid".
type RSAJWTValidator struct {
	keySet    jwk.Set
	audiences map[string]struct{}
	issuers   map[string]struct{}
}

// NewRSAJWTValidator builds a validator around a pre-fetched key set and
// the sets of acceptable audiences and issuers.
func NewRSAJWTValidator(keySet jwk.Set, audiences, issuers []string) *RSAJWTValidator {
	return &RSAJWTValidator{
		keySet:    keySet,
		audiences: toSet(audiences),
		issuers:   toSet(issuers),
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Validate implements auth.TokenValidator, performing the algorithm spec
// §4.1 lays out:
//
//  1. decode the token header without verifying anything and require a
//     "kid";
//  2. look the "kid" up in the JWKS;
//  3. require the resolved JWK to carry RSA parameters;
//  4. require the JWK to declare its own signing algorithm;
//  5. verify signature, expiry, and a multi-valued audience/issuer set;
//  6. build a domain.Token from the verified claims.
func (v *RSAJWTValidator) Validate(_ context.Context, rawToken string) (*domain.Token, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return nil, domain.NewErrorWithCause(domain.KindMalformedToken, "token could not be decoded", err)
	}

	kid, ok := unverified.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, domain.NewError(domain.KindMalformedToken, "token header is missing \"kid\"")
	}

	key, ok := v.keySet.LookupKeyID(kid)
	if !ok {
		return nil, domain.NewError(domain.KindMalformedToken, fmt.Sprintf("no JWKS key found for kid %q", kid))
	}

	if key.KeyType() != jwa.RSA() {
		return nil, domain.NewError(domain.KindMalformedToken, fmt.Sprintf("JWKS key %q is not an RSA key", kid))
	}

	var pubKey rsa.PublicKey
	if err := jwk.Export(key, &pubKey); err != nil {
		return nil, domain.NewErrorWithCause(domain.KindMalformedToken, fmt.Sprintf("JWKS key %q has malformed RSA parameters", kid), err)
	}

	alg, ok := key.Algorithm()
	if !ok {
		return nil, domain.NewError(domain.KindTokenDecodingFailure, fmt.Sprintf("JWKS key %q does not declare a signing algorithm", kid))
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, func(*jwt.Token) (interface{}, error) {
		return &pubKey, nil
	}, jwt.WithValidMethods([]string{alg.String()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, domain.NewErrorWithCause(domain.KindInvalidToken, "token signature or expiry verification failed", err)
	}

	if err := v.checkAudience(claims); err != nil {
		return nil, err
	}
	if err := v.checkIssuer(claims); err != nil {
		return nil, err
	}

	return domain.NewToken(map[string]interface{}(claims))
}

// checkAudience requires at least one of the token's (possibly
// multi-valued) "aud" entries to be in the configured accepted set.
func (v *RSAJWTValidator) checkAudience(claims jwt.MapClaims) error {
	if len(v.audiences) == 0 {
		return nil
	}
	aud, err := claims.GetAudience()
	if err != nil || len(aud) == 0 {
		return domain.NewError(domain.KindInvalidToken, "token is missing a usable \"aud\" claim")
	}
	for _, candidate := range aud {
		if _, ok := v.audiences[candidate]; ok {
			return nil
		}
	}
	return domain.NewError(domain.KindInvalidToken, "token audience is not in the accepted set")
}

// checkIssuer requires the token's single "iss" to be a member of the
// configured accepted set.
func (v *RSAJWTValidator) checkIssuer(claims jwt.MapClaims) error {
	if len(v.issuers) == 0 {
		return nil
	}
	iss, err := claims.GetIssuer()
	if err != nil || iss == "" {
		return domain.NewError(domain.KindInvalidToken, "token is missing a usable \"iss\" claim")
	}
	if _, ok := v.issuers[iss]; !ok {
		return domain.NewError(domain.KindInvalidToken, "token issuer is not in the accepted set")
	}
	return nil
}
