package cloudapps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/auth"
)

// Sentinel errors for construction and lookup failures.
var (
	// ErrNoBaseURL is returned by NewClient when no base URL is configured.
	ErrNoBaseURL = errors.New("cloudapps: no base URL configured")

	// ErrNoCredentials is returned by NewClient when neither an API token
	// nor a complete OAuth2 triple is configured.
	ErrNoCredentials = errors.New("cloudapps: no credentials configured")

	// ErrAmbiguousCredentials is returned by NewClient when both an API
	// token and OAuth2 credentials are configured.
	ErrAmbiguousCredentials = errors.New("cloudapps: both API token and OAuth2 credentials configured")

	// ErrNotFound indicates a lookup by identifier matched nothing.
	ErrNotFound = errors.New("cloudapps: not found")
)

// APIError represents a general Defender for Cloud Apps API error: any
// non-success status not covered by a more specific type, a request
// timeout, or a network failure (StatusCode is 0 for the latter two).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("cloudapps: request failed: %s", e.Message)
	}
	return fmt.Sprintf("cloudapps: API error %d: %s", e.StatusCode, e.Message)
}

// AuthenticationError indicates bad or expired credentials (401) or a
// failed OAuth2 token acquisition.
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("cloudapps: authentication failed: %s", e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *AuthenticationError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// RateLimitError indicates the API rate limit was exceeded (429), surfaced
// after the transport's retries were exhausted.
type RateLimitError struct {
	APIError
}

func (e *RateLimitError) Error() string {
	return "cloudapps: rate limit exceeded"
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *RateLimitError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// BulkFailure records one failed item of a bulk operation.
type BulkFailure struct {
	Name string
	Err  error
}

// BulkError aggregates the per-item failures of a bulk operation that
// continued past them. The successes are returned alongside it.
type BulkError struct {
	Failures []BulkFailure
}

func (e *BulkError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Name)
	}
	return fmt.Sprintf("cloudapps: %d item(s) failed: %s", len(e.Failures), strings.Join(names, ", "))
}

// parseError converts a non-success HTTP response into the appropriate
// error type per the API's status contract.
func parseError(statusCode int, body []byte) error {
	base := APIError{
		StatusCode: statusCode,
		Message:    strings.TrimSpace(string(body)),
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return &AuthenticationError{APIError: base}
	case http.StatusTooManyRequests:
		return &RateLimitError{APIError: base}
	default:
		return &base
	}
}

// checkResponse returns the classified error for a non-2xx response.
func checkResponse(resp *api.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	return parseError(resp.StatusCode, resp.Body)
}

// wrapTransportError translates transport-level failures. Context
// cancellation propagates untouched so callers can detect their own abort;
// OAuth2 token failures become AuthenticationError; everything else
// (timeouts, connection resets) becomes a generic APIError.
func wrapTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var tokenErr *auth.TokenError
	if errors.As(err, &tokenErr) {
		return &AuthenticationError{APIError: APIError{Message: tokenErr.Error()}}
	}

	return &APIError{Message: err.Error()}
}
