package cloudapps

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
)

// AlertService provides access to security alert operations.
type AlertService interface {
	// List returns a single page of alerts matching the filters.
	List(ctx context.Context, filters Filters, opts *ListOptions) ([]Alert, error)

	// ListAll returns every alert matching the filters, walking all pages
	// automatically.
	ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]Alert, error)

	// All returns an iterator over every matching alert, fetching pages
	// lazily as it is advanced.
	All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[Alert, error]

	// Get retrieves a single alert by ID.
	Get(ctx context.Context, id string) (*Alert, error)

	// CloseBenign closes an alert as benign, with an optional comment.
	CloseBenign(ctx context.Context, id, comment string) error

	// CloseFalsePositive closes an alert as a false positive.
	CloseFalsePositive(ctx context.Context, id, comment string) error

	// CloseTruePositive closes an alert as a confirmed threat.
	CloseTruePositive(ctx context.Context, id, comment string) error

	// MarkRead marks an alert as read.
	MarkRead(ctx context.Context, id string) error

	// MarkUnread marks an alert as unread.
	MarkUnread(ctx context.Context, id string) error

	// Open returns open alerts, optionally restricted to one severity.
	// Pass a negative severity to skip the severity filter.
	Open(ctx context.Context, severity, limit int) ([]Alert, error)

	// Unread returns unread alerts.
	Unread(ctx context.Context, limit int) ([]Alert, error)
}

type alertService struct {
	transport *api.Transport
}

func (s *alertService) List(ctx context.Context, filters Filters, opts *ListOptions) ([]Alert, error) {
	req := newListRequest(filters, opts, SortDescending)
	return doList[Alert](ctx, s.transport, alertsListPath, req)
}

func (s *alertService) ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]Alert, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	return Collect(paginate[Alert](ctx, s.transport, alertsListPath, newListRequest(filters, opts, "")))
}

func (s *alertService) All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[Alert, error] {
	req := newListRequest(filters, &ListOptions{Limit: pageSize}, "")
	return paginate[Alert](ctx, s.transport, alertsListPath, req)
}

func (s *alertService) Get(ctx context.Context, id string) (*Alert, error) {
	return doGet[Alert](ctx, s.transport, fmt.Sprintf(alertDetailPath, url.PathEscape(id)), nil)
}

func (s *alertService) CloseBenign(ctx context.Context, id, comment string) error {
	return s.close(ctx, alertCloseBenignPath, id, comment)
}

func (s *alertService) CloseFalsePositive(ctx context.Context, id, comment string) error {
	return s.close(ctx, alertCloseFalsePositivePath, id, comment)
}

func (s *alertService) CloseTruePositive(ctx context.Context, id, comment string) error {
	return s.close(ctx, alertCloseTruePositivePath, id, comment)
}

func (s *alertService) close(ctx context.Context, pathTemplate, id, comment string) error {
	body := map[string]any{}
	if comment != "" {
		body["comment"] = comment
	}
	path := fmt.Sprintf(pathTemplate, url.PathEscape(id))
	return doAction(ctx, s.transport, http.MethodPost, path, body)
}

func (s *alertService) MarkRead(ctx context.Context, id string) error {
	path := fmt.Sprintf(alertMarkReadPath, url.PathEscape(id))
	return doAction(ctx, s.transport, http.MethodPost, path, nil)
}

func (s *alertService) MarkUnread(ctx context.Context, id string) error {
	path := fmt.Sprintf(alertMarkUnreadPath, url.PathEscape(id))
	return doAction(ctx, s.transport, http.MethodPost, path, nil)
}

func (s *alertService) Open(ctx context.Context, severity, limit int) ([]Alert, error) {
	builder := NewFilterBuilder().Equals("alertOpen", true)
	if severity >= 0 {
		builder.Equals("severity", severity)
	}
	return s.List(ctx, builder.Build(), &ListOptions{Limit: limit})
}

func (s *alertService) Unread(ctx context.Context, limit int) ([]Alert, error) {
	filters := NewFilterBuilder().Equals("read", false).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}
