package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"

	"github.com/cooplan/amqp-api/internal/domain"
)

// JWKSFetcher retrieves a JSON Web Key Set once at startup. Per spec §4.1
// the framework never refreshes or rotates keys after that first fetch;
// a service that needs key rotation must be restarted.
type JWKSFetcher struct {
	uri        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewJWKSFetcher builds a fetcher for the JWKS endpoint at uri. A nil
// httpClient falls back to http.DefaultClient.
func NewJWKSFetcher(uri string, httpClient *http.Client) *JWKSFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &JWKSFetcher{
		uri:        uri,
		httpClient: httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "jwks-fetch",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// Fetch retrieves the key set, retrying transient failures with bounded
// exponential backoff behind a circuit breaker so a flaky JWKS endpoint
// cannot wedge startup indefinitely.
func (f *JWKSFetcher) Fetch(ctx context.Context) (jwk.Set, error) {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(200*time.Millisecond))

	raw, err := f.breaker.Execute(func() (interface{}, error) {
		var set jwk.Set
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			fetched, fetchErr := jwk.Fetch(ctx, f.uri, jwk.WithHTTPClient(f.httpClient))
			if fetchErr != nil {
				return retry.RetryableError(fetchErr)
			}
			set = fetched
			return nil
		})
		return set, err
	})
	if err != nil {
		return nil, domain.NewErrorWithCause(domain.KindAPIConnectionFailure,
			fmt.Sprintf("failed to fetch JWKS from %s", f.uri), err)
	}
	return raw.(jwk.Set), nil
}
