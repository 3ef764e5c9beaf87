package cloudapps

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL      string
	apiToken     string
	tenantID     string
	clientID     string
	clientSecret string
	authority    string
	timeout      time.Duration
	minInterval  time.Duration
	maxRetries   int
	userAgent    string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// WithBaseURL sets the tenant API base URL, e.g.
// "https://tenant.region.portal.cloudappsecurity.com/api".
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAPIToken sets a personal API token (legacy authentication). Mutually
// exclusive with WithOAuth2.
func WithAPIToken(token string) ClientOption {
	return func(c *clientConfig) {
		c.apiToken = token
	}
}

// WithOAuth2 sets OAuth2 client-credentials authentication. Mutually
// exclusive with WithAPIToken.
func WithOAuth2(tenantID, clientID, clientSecret string) ClientOption {
	return func(c *clientConfig) {
		c.tenantID = tenantID
		c.clientID = clientID
		c.clientSecret = clientSecret
	}
}

// WithAuthority overrides the Microsoft login endpoint used for the OAuth2
// token grant. Mainly useful for tests.
func WithAuthority(url string) ClientOption {
	return func(c *clientConfig) {
		c.authority = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithRateLimitInterval sets the minimum spacing between requests issued
// by this client. Zero disables the gate.
func WithRateLimitInterval(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.minInterval = d
	}
}

// WithMaxRetries sets how many times a transient failure (429, 5xx,
// network error) is retried before surfacing.
func WithMaxRetries(n int) ClientOption {
	return func(c *clientConfig) {
		c.maxRetries = n
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithHTTPClient sets a custom underlying HTTP client. The request timeout
// is still applied to it.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used for request-level debug logging and bulk
// operation diagnostics. The default discards everything.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
