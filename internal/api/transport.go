// Package api provides low-level HTTP transport for Defender for Cloud
// Apps API calls: request spacing, authentication, and bounded retries.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/auth"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMinInterval = 2 * time.Second
	defaultMaxRetries  = 3

	// Response bodies are capped to keep a misbehaving endpoint from
	// exhausting memory.
	maxBodySize = 10 * 1024 * 1024

	retryWaitMin = 1 * time.Second
	retryWaitMax = 30 * time.Second
)

// retryStatuses are the response codes the transport retries with
// exponential backoff before surfacing an error.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Config carries the transport construction parameters.
type Config struct {
	BaseURL     string
	Source      auth.Source
	Timeout     time.Duration
	MinInterval time.Duration
	MaxRetries  int
	UserAgent   string
	HTTPClient  *http.Client
	Logger      zerolog.Logger
}

// Transport executes single HTTP requests against the API. All façades of
// a client share one Transport, so its rate gate serializes their calls.
type Transport struct {
	BaseURL   *url.URL
	UserAgent string

	client *retryablehttp.Client
	source auth.Source
	logger zerolog.Logger

	// Rate gate state. lastRequest holds the dispatch start of the most
	// recently scheduled request; the mutex keeps concurrent callers from
	// both observing a stale timestamp.
	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// NewTransport creates a Transport with the given configuration.
func NewTransport(cfg Config) (*Transport, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("auth source must be provided")
	}

	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = defaultMinInterval
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = retryWaitMin
	rc.RetryWaitMax = retryWaitMax
	rc.Logger = nil
	rc.CheckRetry = checkRetry
	if cfg.HTTPClient != nil {
		rc.HTTPClient = cfg.HTTPClient
	}
	rc.HTTPClient.Timeout = cfg.Timeout

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "defender-for-cloud-apps-api-client/1.0"
	}

	return &Transport{
		BaseURL:     u,
		UserAgent:   userAgent,
		client:      rc,
		source:      cfg.Source,
		logger:      cfg.Logger,
		minInterval: cfg.MinInterval,
	}, nil
}

// checkRetry retries the configured status set plus transient transport
// errors, and gives up as soon as the context is done.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return resp != nil && retryStatuses[resp.StatusCode], nil
}

// Request represents an API request.
type Request struct {
	Method string
	Path   string
	Body   any
	Query  url.Values
}

// Response represents a raw API response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Do executes one request: it waits out the rate gate, applies the auth
// header, dispatches with retries, and returns the captured response.
func (t *Transport) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := t.waitTurn(ctx); err != nil {
		return nil, err
	}

	httpReq, err := t.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Debug().
			Str("method", req.Method).
			Str("path", req.Path).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("api request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > maxBodySize {
		return nil, fmt.Errorf("response too large: exceeds %d bytes", maxBodySize)
	}

	t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", httpResp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

// waitTurn blocks until at least minInterval has elapsed since the start
// of the previous request. The slot is reserved under the mutex before
// sleeping, so concurrent callers line up on successive slots instead of
// doubling up on a stale timestamp.
func (t *Transport) waitTurn(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	var wait time.Duration
	if !t.lastRequest.IsZero() {
		if elapsed := now.Sub(t.lastRequest); elapsed < t.minInterval {
			wait = t.minInterval - elapsed
		}
	}
	t.lastRequest = now.Add(wait)
	t.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Transport) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	u := t.BaseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		body = data
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", t.UserAgent)

	if err := t.source.Apply(httpReq.Request); err != nil {
		return nil, err
	}

	return httpReq, nil
}

// Close releases the transport's idle connections. The client owning this
// transport calls it when it is no longer needed.
func (t *Transport) Close() {
	t.client.HTTPClient.CloseIdleConnections()
}
