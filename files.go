package cloudapps

import (
	"context"
	"fmt"
	"iter"
	"net/url"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
)

// FileService provides access to file and folder metadata across connected
// cloud apps. Not available on Microsoft 365 Cloud App Security tenants.
type FileService interface {
	// List returns a single page of files matching the filters.
	List(ctx context.Context, filters Filters, opts *ListOptions) ([]File, error)

	// ListAll returns every file matching the filters, walking all pages
	// automatically.
	ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]File, error)

	// All returns an iterator over every matching file, fetching pages
	// lazily as it is advanced.
	All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[File, error]

	// Get retrieves a single file by ID.
	Get(ctx context.Context, id string) (*File, error)

	// Public returns publicly shared files, optionally scoped to one app.
	// Pass appID 0 to skip the app filter.
	Public(ctx context.Context, appID, limit int) ([]File, error)

	// External returns externally shared files, optionally scoped to one
	// app.
	External(ctx context.Context, appID, limit int) ([]File, error)

	// Quarantined returns quarantined files.
	Quarantined(ctx context.Context, limit int) ([]File, error)

	// ByOwner returns files owned by the given entity.
	ByOwner(ctx context.Context, ownerEntityID string, limit int) ([]File, error)

	// ByType returns files of the given type (Document, Spreadsheet, ...).
	ByType(ctx context.Context, fileType string, limit int) ([]File, error)

	// ByExtension returns files with the given extension.
	ByExtension(ctx context.Context, extension string, limit int) ([]File, error)

	// RecentlyModified returns files modified within the last N days.
	RecentlyModified(ctx context.Context, days, limit int) ([]File, error)
}

type fileService struct {
	transport *api.Transport
}

func (s *fileService) List(ctx context.Context, filters Filters, opts *ListOptions) ([]File, error) {
	req := newListRequest(filters, opts, SortDescending)
	return doList[File](ctx, s.transport, filesListPath, req)
}

func (s *fileService) ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]File, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	return Collect(paginate[File](ctx, s.transport, filesListPath, newListRequest(filters, opts, "")))
}

func (s *fileService) All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[File, error] {
	req := newListRequest(filters, &ListOptions{Limit: pageSize}, "")
	return paginate[File](ctx, s.transport, filesListPath, req)
}

func (s *fileService) Get(ctx context.Context, id string) (*File, error) {
	return doGet[File](ctx, s.transport, fmt.Sprintf(fileDetailPath, url.PathEscape(id)), nil)
}

func (s *fileService) Public(ctx context.Context, appID, limit int) ([]File, error) {
	return s.bySharing(ctx, SharingPublic, appID, limit)
}

func (s *fileService) External(ctx context.Context, appID, limit int) ([]File, error) {
	return s.bySharing(ctx, SharingExternal, appID, limit)
}

func (s *fileService) bySharing(ctx context.Context, sharing string, appID, limit int) ([]File, error) {
	builder := NewFilterBuilder().Equals("sharing", sharing)
	if appID != 0 {
		builder.Equals("service", appID)
	}
	return s.List(ctx, builder.Build(), &ListOptions{Limit: limit})
}

func (s *fileService) Quarantined(ctx context.Context, limit int) ([]File, error) {
	filters := NewFilterBuilder().Equals("quarantined", true).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}

func (s *fileService) ByOwner(ctx context.Context, ownerEntityID string, limit int) ([]File, error) {
	filters := NewFilterBuilder().Equals("owner.entity", ownerEntityID).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}

func (s *fileService) ByType(ctx context.Context, fileType string, limit int) ([]File, error) {
	filters := NewFilterBuilder().Equals("fileType", fileType).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}

func (s *fileService) ByExtension(ctx context.Context, extension string, limit int) ([]File, error) {
	filters := NewFilterBuilder().Equals("extension", extension).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}

func (s *fileService) RecentlyModified(ctx context.Context, days, limit int) ([]File, error) {
	filters := NewFilterBuilder().GreaterThanOrEqual("modifiedDate", DaysAgoMillis(days)).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}
