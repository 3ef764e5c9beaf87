package cloudapps

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
)

// ActivityService provides access to cloud-app activity records: logins,
// downloads, shares, and other user actions tracked by the API.
type ActivityService interface {
	// List returns a single page of activities matching the filters.
	List(ctx context.Context, filters Filters, opts *ListOptions) ([]Activity, error)

	// ListAll returns every activity matching the filters, walking all
	// pages automatically.
	ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]Activity, error)

	// All returns an iterator over every matching activity, fetching
	// pages lazily as it is advanced.
	All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[Activity, error]

	// Get retrieves a single activity by ID.
	Get(ctx context.Context, id string) (*Activity, error)

	// ProvideFeedback submits feedback (e.g. "benign", "malicious") on an
	// activity, with an optional comment.
	ProvideFeedback(ctx context.Context, id, feedback, comment string) error

	// Search combines a free-text query with additional filters.
	Search(ctx context.Context, text string, filters Filters, limit int) ([]Activity, error)
}

type activityService struct {
	transport *api.Transport
}

func (s *activityService) List(ctx context.Context, filters Filters, opts *ListOptions) ([]Activity, error) {
	req := newListRequest(filters, opts, SortAscending)
	return doList[Activity](ctx, s.transport, activitiesListPath, req)
}

func (s *activityService) ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]Activity, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	return Collect(paginate[Activity](ctx, s.transport, activitiesListPath, newListRequest(filters, opts, "")))
}

func (s *activityService) All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[Activity, error] {
	req := newListRequest(filters, &ListOptions{Limit: pageSize}, "")
	return paginate[Activity](ctx, s.transport, activitiesListPath, req)
}

func (s *activityService) Get(ctx context.Context, id string) (*Activity, error) {
	return doGet[Activity](ctx, s.transport, fmt.Sprintf(activityDetailPath, url.PathEscape(id)), nil)
}

func (s *activityService) ProvideFeedback(ctx context.Context, id, feedback, comment string) error {
	body := map[string]any{
		"feedback": feedback,
	}
	if comment != "" {
		body["feedbackText"] = comment
	}
	path := fmt.Sprintf(activityFeedbackPath, url.PathEscape(id))
	return doAction(ctx, s.transport, http.MethodPost, path, body)
}

func (s *activityService) Search(ctx context.Context, text string, filters Filters, limit int) ([]Activity, error) {
	combined := Filters{}
	for field, comparison := range filters {
		combined[field] = comparison
	}
	combined["text"] = map[string]any{"eq": text}
	return s.List(ctx, combined, &ListOptions{Limit: limit})
}
