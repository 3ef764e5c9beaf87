package cloudapps

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
)

// EntityService provides access to user and device entities: risk scores,
// behavioral analytics, and identity investigation data.
type EntityService interface {
	// List returns a single page of entities matching the filters. Note
	// the entities endpoint nests sorting under a "sort" object rather
	// than the flat sortField/sortDirection keys of the other endpoints.
	List(ctx context.Context, filters Filters, opts *ListOptions) ([]Entity, error)

	// ListAll returns every entity matching the filters, walking all
	// pages automatically.
	ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]Entity, error)

	// All returns an iterator over every matching entity, fetching pages
	// lazily as it is advanced.
	All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[Entity, error]

	// Get retrieves a single entity by ID.
	Get(ctx context.Context, id string) (*Entity, error)

	// ByUsername looks up a user entity by username and optional domain.
	// Returns (nil, nil) when no entity matches.
	ByUsername(ctx context.Context, username, domain string) (*Entity, error)

	// Risky returns entities with a risk score at or above minScore,
	// optionally restricted to one entity type.
	Risky(ctx context.Context, minScore int, entityType string, limit int) ([]Entity, error)

	// External returns external user entities.
	External(ctx context.Context, limit int) ([]Entity, error)

	// Admins returns administrator entities.
	Admins(ctx context.Context, limit int) ([]Entity, error)

	// RiskFactors returns the factors contributing to an entity's risk
	// score.
	RiskFactors(ctx context.Context, id string) ([]RiskFactor, error)

	// Search matches entities whose username, email, or device name
	// contains the query. The API filter is a server-side prefilter; the
	// results are narrowed client-side for the other fields.
	Search(ctx context.Context, query, entityType string, limit int) ([]Entity, error)

	// ByTag returns entities carrying the given tag.
	ByTag(ctx context.Context, tag string, limit int) ([]Entity, error)
}

type entityService struct {
	transport *api.Transport
}

func (s *entityService) List(ctx context.Context, filters Filters, opts *ListOptions) ([]Entity, error) {
	req := newListRequest(filters, opts, SortAscending).nestSort()
	return doList[Entity](ctx, s.transport, entitiesListPath, req)
}

func (s *entityService) ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]Entity, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	req := newListRequest(filters, opts, SortAscending).nestSort()
	return Collect(paginate[Entity](ctx, s.transport, entitiesListPath, req))
}

func (s *entityService) All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[Entity, error] {
	req := newListRequest(filters, &ListOptions{Limit: pageSize}, "")
	return paginate[Entity](ctx, s.transport, entitiesListPath, req)
}

func (s *entityService) Get(ctx context.Context, id string) (*Entity, error) {
	return doGet[Entity](ctx, s.transport, fmt.Sprintf(entityDetailPath, url.PathEscape(id)), nil)
}

func (s *entityService) ByUsername(ctx context.Context, username, domain string) (*Entity, error) {
	builder := NewFilterBuilder().Equals("user.username", username)
	if domain != "" {
		builder.Equals("user.domain", domain)
	}

	entities, err := s.List(ctx, builder.Build(), &ListOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}
	return &entities[0], nil
}

func (s *entityService) Risky(ctx context.Context, minScore int, entityType string, limit int) ([]Entity, error) {
	builder := NewFilterBuilder().GreaterThanOrEqual("riskScore", minScore)
	if entityType != "" {
		builder.Equals("entity.type", entityType)
	}
	return s.List(ctx, builder.Build(), &ListOptions{Limit: limit})
}

func (s *entityService) External(ctx context.Context, limit int) ([]Entity, error) {
	filters := NewFilterBuilder().Equals("isExternal", true).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}

func (s *entityService) Admins(ctx context.Context, limit int) ([]Entity, error) {
	filters := NewFilterBuilder().Equals("isAdmin", true).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}

func (s *entityService) RiskFactors(ctx context.Context, id string) ([]RiskFactor, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return entity.RiskFactors, nil
}

func (s *entityService) Search(ctx context.Context, query, entityType string, limit int) ([]Entity, error) {
	builder := NewFilterBuilder().Contains("user.username", query)
	if entityType != "" {
		builder.Equals("entity.type", entityType)
	}

	entities, err := s.List(ctx, builder.Build(), &ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matched := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if strings.Contains(strings.ToLower(e.Username), needle) ||
			strings.Contains(strings.ToLower(e.Email), needle) ||
			strings.Contains(strings.ToLower(e.DeviceName), needle) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (s *entityService) ByTag(ctx context.Context, tag string, limit int) ([]Entity, error) {
	filters := NewFilterBuilder().Equals("tags", tag).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}
