package cloudapps

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
)

// DiscoveryOptions configures discovered-app queries. StreamID scopes the
// query to one continuous report (empty queries all streams); TimeFrame
// restricts to apps used within the last N days.
type DiscoveryOptions struct {
	ListOptions
	StreamID  string
	TimeFrame int
}

// DiscoveryService provides access to cloud discovery: continuous
// reports, discovered apps, categories, and block scripts for shadow-IT
// governance.
type DiscoveryService interface {
	// Streams lists all continuous reports.
	Streams(ctx context.Context) ([]Stream, error)

	// DiscoveredApps returns a single page of discovered apps.
	DiscoveredApps(ctx context.Context, filters Filters, opts *DiscoveryOptions) ([]DiscoveredApp, error)

	// DiscoveredAppsAll returns every matching discovered app, walking
	// all pages automatically.
	DiscoveredAppsAll(ctx context.Context, filters Filters, opts *DiscoveryOptions) ([]DiscoveredApp, error)

	// AllApps returns an iterator over every matching discovered app.
	AllApps(ctx context.Context, filters Filters, opts *DiscoveryOptions) iter.Seq2[DiscoveredApp, error]

	// GetApp retrieves one discovered app by its numeric app ID. Returns
	// an error wrapping ErrNotFound when no app matches.
	GetApp(ctx context.Context, appID int, streamID string) (*DiscoveredApp, error)

	// SearchApps matches discovered apps by name substring.
	SearchApps(ctx context.Context, text, streamID string, limit int) ([]DiscoveredApp, error)

	// Categories lists app categories for a continuous report.
	Categories(ctx context.Context, streamID string, filters Filters, opts *ListOptions) ([]AppCategory, error)

	// BlockScript generates a block script for the given network
	// appliance format (e.g. "paloalto", "cisco", "fortinet").
	BlockScript(ctx context.Context, format, streamID string) (string, error)

	// HighRisk returns discovered apps whose risk score is at or above
	// the threshold. Filtered client-side since the risk filter is not
	// uniformly available server-side.
	HighRisk(ctx context.Context, streamID string, threshold, limit int) ([]DiscoveredApp, error)

	// Unsanctioned returns discovered apps tagged unsanctioned, filtered
	// client-side.
	Unsanctioned(ctx context.Context, streamID string, limit int) ([]DiscoveredApp, error)

	// ByCategory returns discovered apps in the given category.
	ByCategory(ctx context.Context, category, streamID string, limit int) ([]DiscoveredApp, error)

	// Noncompliant returns apps that do not meet the given compliance
	// standard (e.g. "HIPAA", "SOC 2").
	Noncompliant(ctx context.Context, standard, streamID string, limit int) ([]DiscoveredApp, error)
}

type discoveryService struct {
	transport *api.Transport
}

func (s *discoveryService) Streams(ctx context.Context) ([]Stream, error) {
	// The streams endpoint answers GET with either {"data": [...]} or a
	// bare array; decodeList handles both.
	body, err := doRaw(ctx, s.transport, discoveryStreamsPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Stream](body)
}

func (s *discoveryService) buildRequest(filters Filters, opts *DiscoveryOptions) listRequest {
	if opts == nil {
		opts = &DiscoveryOptions{}
	}
	req := newListRequest(filters, &opts.ListOptions, SortDescending)
	req.StreamID = opts.StreamID
	req.TimeFrame = opts.TimeFrame
	return req
}

func (s *discoveryService) DiscoveredApps(ctx context.Context, filters Filters, opts *DiscoveryOptions) ([]DiscoveredApp, error) {
	req := s.buildRequest(filters, opts)
	return doList[DiscoveredApp](ctx, s.transport, discoveredAppsPath, req)
}

func (s *discoveryService) DiscoveredAppsAll(ctx context.Context, filters Filters, opts *DiscoveryOptions) ([]DiscoveredApp, error) {
	return Collect(s.AllApps(ctx, filters, opts))
}

func (s *discoveryService) AllApps(ctx context.Context, filters Filters, opts *DiscoveryOptions) iter.Seq2[DiscoveredApp, error] {
	req := s.buildRequest(filters, opts)
	req.SortField = ""
	req.SortDirection = ""
	return paginate[DiscoveredApp](ctx, s.transport, discoveredAppsPath, req)
}

func (s *discoveryService) GetApp(ctx context.Context, appID int, streamID string) (*DiscoveredApp, error) {
	filters := NewFilterBuilder().Equals("appId", appID).Build()
	apps, err := s.DiscoveredApps(ctx, filters, &DiscoveryOptions{
		ListOptions: ListOptions{Limit: 1},
		StreamID:    streamID,
	})
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, fmt.Errorf("%w: discovered app %d", ErrNotFound, appID)
	}
	return &apps[0], nil
}

func (s *discoveryService) SearchApps(ctx context.Context, text, streamID string, limit int) ([]DiscoveredApp, error) {
	filters := NewFilterBuilder().Contains("appName", text).Build()
	return s.DiscoveredApps(ctx, filters, &DiscoveryOptions{
		ListOptions: ListOptions{Limit: limit},
		StreamID:    streamID,
	})
}

func (s *discoveryService) Categories(ctx context.Context, streamID string, filters Filters, opts *ListOptions) ([]AppCategory, error) {
	req := newListRequest(filters, opts, SortDescending)
	req.StreamID = streamID
	return doList[AppCategory](ctx, s.transport, discoveryCategoriesPath, req)
}

func (s *discoveryService) BlockScript(ctx context.Context, format, streamID string) (string, error) {
	query := url.Values{"format": {format}}
	if streamID != "" {
		query.Set("streamId", streamID)
	}

	body, err := doRaw(ctx, s.transport, discoveryBlockScriptPath, query)
	if err != nil {
		return "", err
	}

	// The script arrives either raw or wrapped as {"script": "..."}.
	var wrapped struct {
		Script string `json:"script"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Script != "" {
		return wrapped.Script, nil
	}
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		return plain, nil
	}
	return string(body), nil
}

func (s *discoveryService) HighRisk(ctx context.Context, streamID string, threshold, limit int) ([]DiscoveredApp, error) {
	apps, err := s.DiscoveredApps(ctx, nil, &DiscoveryOptions{
		ListOptions: ListOptions{Limit: limit},
		StreamID:    streamID,
	})
	if err != nil {
		return nil, err
	}

	highRisk := make([]DiscoveredApp, 0, len(apps))
	for _, app := range apps {
		if app.RiskScore >= threshold {
			highRisk = append(highRisk, app)
		}
	}
	return highRisk, nil
}

func (s *discoveryService) Unsanctioned(ctx context.Context, streamID string, limit int) ([]DiscoveredApp, error) {
	apps, err := s.DiscoveredApps(ctx, nil, &DiscoveryOptions{
		ListOptions: ListOptions{Limit: limit},
		StreamID:    streamID,
	})
	if err != nil {
		return nil, err
	}

	unsanctioned := make([]DiscoveredApp, 0, len(apps))
	for _, app := range apps {
		if strings.EqualFold(app.AppTag, "unsanctioned") || (app.Sanctioned != nil && !*app.Sanctioned) {
			unsanctioned = append(unsanctioned, app)
		}
	}
	return unsanctioned, nil
}

func (s *discoveryService) ByCategory(ctx context.Context, category, streamID string, limit int) ([]DiscoveredApp, error) {
	filters := NewFilterBuilder().Equals("category", category).Build()
	return s.DiscoveredApps(ctx, filters, &DiscoveryOptions{
		ListOptions: ListOptions{Limit: limit},
		StreamID:    streamID,
	})
}

func (s *discoveryService) Noncompliant(ctx context.Context, standard, streamID string, limit int) ([]DiscoveredApp, error) {
	filters := NewFilterBuilder().NotEquals("complianceRiskFactor", standard).Build()
	return s.DiscoveredApps(ctx, filters, &DiscoveryOptions{
		ListOptions: ListOptions{Limit: limit},
		StreamID:    streamID,
	})
}
