package cloudapps

import (
	"context"
	"iter"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
)

const (
	// maxPageSize is the API's hard per-request item cap. Larger limits
	// are clamped silently before dispatch.
	maxPageSize = 100

	defaultPageSize = 100
)

// SortDirection orders list results.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ListOptions configures paging and sorting for list requests. A zero
// Limit selects the default page size; sorting is only transmitted when
// SortField is set.
type ListOptions struct {
	Limit         int
	Skip          int
	SortField     string
	SortDirection SortDirection
}

// listRequest is the JSON body of the API's list endpoints.
type listRequest struct {
	Filters       Filters       `json:"filters"`
	Limit         int           `json:"limit"`
	Skip          int           `json:"skip"`
	SortField     string        `json:"sortField,omitempty"`
	SortDirection SortDirection `json:"sortDirection,omitempty"`

	// Discovery-only keys.
	StreamID  string `json:"streamId,omitempty"`
	TimeFrame int    `json:"timeFrame,omitempty"`

	// The entities endpoint nests sorting instead of the flat keys above.
	Sort *sortSpec `json:"sort,omitempty"`
}

type sortSpec struct {
	SortField     string        `json:"sortField"`
	SortDirection SortDirection `json:"sortDirection"`
}

// newListRequest assembles a request envelope, clamping the limit to the
// API ceiling and filling in the endpoint's default sort direction.
func newListRequest(filters Filters, opts *ListOptions, defaultDir SortDirection) listRequest {
	if opts == nil {
		opts = &ListOptions{}
	}
	if filters == nil {
		filters = Filters{}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	req := listRequest{
		Filters: filters,
		Limit:   limit,
		Skip:    opts.Skip,
	}

	if opts.SortField != "" {
		req.SortField = opts.SortField
		req.SortDirection = opts.SortDirection
		if req.SortDirection == "" {
			req.SortDirection = defaultDir
		}
	}

	return req
}

// nestSort moves the flat sort keys into the nested shape the entities
// endpoint expects.
func (r listRequest) nestSort() listRequest {
	if r.SortField == "" {
		return r
	}
	r.Sort = &sortSpec{SortField: r.SortField, SortDirection: r.SortDirection}
	r.SortField = ""
	r.SortDirection = ""
	return r
}

// paginate returns a lazy iterator over every record matching req,
// fetching pages from path as the caller advances.
//
// The skip cursor starts at req.Skip and advances by the number of items
// actually received, never by the requested page size, so a server that
// returns fewer items than asked cannot make the cursor overshoot.
// Iteration ends on an empty page or on a page shorter than the (clamped)
// requested limit. The short-page check is a heuristic: when the true last
// page is exactly full, one extra request is issued that returns empty and
// stops. Errors end iteration; the caller sees every item fetched before
// the failure.
func paginate[T any](ctx context.Context, t *api.Transport, path string, req listRequest) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		limit := req.Limit
		skip := req.Skip

		for {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			req.Skip = skip
			items, err := doList[T](ctx, t, path, req)
			if err != nil {
				yield(zero, err)
				return
			}

			if len(items) == 0 {
				return
			}

			for _, item := range items {
				if err := ctx.Err(); err != nil {
					yield(zero, err)
					return
				}
				if !yield(item, nil) {
					return
				}
			}

			if len(items) < limit {
				return
			}
			skip += len(items)
		}
	}
}
