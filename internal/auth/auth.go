// Package auth provides the two Defender for Cloud Apps authentication
// modes: legacy personal API tokens and OAuth2 client credentials.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultAuthority is the Microsoft Entra login endpoint used for the
// client-credentials grant.
const DefaultAuthority = "https://login.microsoftonline.com"

// resourceID identifies the Defender for Cloud Apps API in Entra ID.
const resourceID = "05a65629-4c1b-48c1-a78b-804c4abdd4af"

// refreshMargin is how long before expiry a cached token stops being
// reused. The next request then fetches a fresh one synchronously.
const refreshMargin = 5 * time.Minute

// Source supplies the Authorization header for outgoing API requests.
type Source interface {
	Apply(req *http.Request) error
}

// StaticToken authenticates with a personal API token.
type StaticToken struct {
	Token string
}

func (s *StaticToken) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Token "+s.Token)
	return nil
}

// TokenError wraps an OAuth2 token acquisition failure so callers can
// classify it separately from other transport errors.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string {
	return "acquiring oauth2 token: " + e.Err.Error()
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// ClientCredentials authenticates with the OAuth2 client-credentials grant
// against the tenant's Entra authority. Tokens are cached and reused until
// they are within refreshMargin of expiry; the underlying token source is
// mutex-guarded, so concurrent callers share one cached token.
type ClientCredentials struct {
	source oauth2.TokenSource
}

// NewClientCredentials builds a bearer-token source for the given tenant.
// An empty authority selects DefaultAuthority; tests point it at a fake.
func NewClientCredentials(tenantID, clientID, clientSecret, authority string, timeout time.Duration) *ClientCredentials {
	if authority == "" {
		authority = DefaultAuthority
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", strings.TrimSuffix(authority, "/"), tenantID),
		Scopes:       []string{resourceID + "/.default"},
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Timeout: timeout,
	})

	return &ClientCredentials{
		source: oauth2.ReuseTokenSourceWithExpiry(nil, grantSource{ctx: ctx, cfg: cfg}, refreshMargin),
	}
}

func (c *ClientCredentials) Apply(req *http.Request) error {
	token, err := c.source.Token()
	if err != nil {
		return &TokenError{Err: err}
	}
	token.SetAuthHeader(req)
	return nil
}

// grantSource performs an uncached client-credentials grant on every call.
// Caching lives in the ReuseTokenSourceWithExpiry wrapper so the refresh
// margin is ours, not the library default.
type grantSource struct {
	ctx context.Context
	cfg *clientcredentials.Config
}

func (g grantSource) Token() (*oauth2.Token, error) {
	return g.cfg.Token(g.ctx)
}
