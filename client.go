package cloudapps

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/auth"
)

// Default configuration values.
const (
	defaultTimeout           = 30 * time.Second
	defaultRateLimitInterval = 2 * time.Second
	defaultMaxRetries        = 3
)

// Client is the Defender for Cloud Apps API client. The six endpoint
// services share one transport, so its rate gate spaces all requests the
// client issues regardless of which service they come from.
type Client struct {
	// Activities provides access to cloud-app activity records.
	Activities ActivityService

	// Alerts provides access to security alert operations.
	Alerts AlertService

	// Files provides access to file metadata.
	Files FileService

	// Entities provides access to user and device risk entities.
	Entities EntityService

	// Discovery provides access to cloud discovery (shadow IT) data.
	Discovery DiscoveryService

	// Subnets provides access to data-enrichment IP subnet mappings.
	Subnets SubnetService

	transport *api.Transport
}

// NewClient creates a new Defender for Cloud Apps client with the given
// options. Exactly one of WithAPIToken or a complete WithOAuth2 triple
// must be supplied.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		timeout:     defaultTimeout,
		minInterval: defaultRateLimitInterval,
		maxRetries:  defaultMaxRetries,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.baseURL == "" {
		return nil, ErrNoBaseURL
	}

	hasToken := cfg.apiToken != ""
	hasOAuth := cfg.tenantID != "" && cfg.clientID != "" && cfg.clientSecret != ""

	switch {
	case !hasToken && !hasOAuth:
		return nil, ErrNoCredentials
	case hasToken && hasOAuth:
		return nil, ErrAmbiguousCredentials
	}

	var source auth.Source
	if hasToken {
		source = &auth.StaticToken{Token: cfg.apiToken}
	} else {
		source = auth.NewClientCredentials(cfg.tenantID, cfg.clientID, cfg.clientSecret, cfg.authority, cfg.timeout)
	}

	transport, err := api.NewTransport(api.Config{
		BaseURL:     cfg.baseURL,
		Source:      source,
		Timeout:     cfg.timeout,
		MinInterval: cfg.minInterval,
		MaxRetries:  cfg.maxRetries,
		UserAgent:   cfg.userAgent,
		HTTPClient:  cfg.httpClient,
		Logger:      cfg.logger,
	})
	if err != nil {
		return nil, err
	}

	client := &Client{
		transport: transport,
	}

	// All services are constructed up front; there is no lazy
	// initialization to race on.
	client.Activities = &activityService{transport: transport}
	client.Alerts = &alertService{transport: transport}
	client.Files = &fileService{transport: transport}
	client.Entities = &entityService{transport: transport}
	client.Discovery = &discoveryService{transport: transport}
	client.Subnets = &subnetService{transport: transport, logger: cfg.logger}

	return client, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL.String()
}

// Close releases the client's idle connections. The client must not be
// used afterwards.
func (c *Client) Close() {
	c.transport.Close()
}
