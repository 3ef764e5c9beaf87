package cloudapps

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
)

// SubnetService manages the data-enrichment IP subnet mappings that tie
// discovery traffic to organizational units and locations.
type SubnetService interface {
	// List returns a single page of subnets matching the filters.
	List(ctx context.Context, filters Filters, opts *ListOptions) ([]Subnet, error)

	// ListAll returns every subnet matching the filters, walking all
	// pages automatically.
	ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]Subnet, error)

	// All returns an iterator over every matching subnet.
	All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[Subnet, error]

	// Get retrieves a single subnet by ID.
	Get(ctx context.Context, id string) (*Subnet, error)

	// Create adds a new subnet mapping.
	Create(ctx context.Context, spec SubnetSpec) (*Subnet, error)

	// Update changes the non-nil fields of an existing subnet.
	Update(ctx context.Context, id string, update SubnetUpdate) (*Subnet, error)

	// Delete removes a subnet mapping.
	Delete(ctx context.Context, id string) error

	// ByName looks up a subnet by display name. Returns (nil, nil) when
	// no subnet matches.
	ByName(ctx context.Context, name string) (*Subnet, error)

	// ByOrganization returns the subnets assigned to an organizational
	// unit.
	ByOrganization(ctx context.Context, organization string, limit int) ([]Subnet, error)

	// ByLocation returns the subnets for a geographic location.
	ByLocation(ctx context.Context, location string, limit int) ([]Subnet, error)

	// ByCategory returns the subnets in a category (Corporate, ISP, ...).
	ByCategory(ctx context.Context, category string, limit int) ([]Subnet, error)

	// BulkCreate creates multiple subnets, continuing past individual
	// failures. It returns the subnets that were created; when any item
	// failed, the error is a *BulkError detailing each failure.
	BulkCreate(ctx context.Context, specs []SubnetSpec) ([]Subnet, error)

	// Search matches subnets whose name, organization, or location
	// contains the query.
	Search(ctx context.Context, query string, limit int) ([]Subnet, error)

	// Report renders all configured subnets as a text report grouped by
	// organization.
	Report(ctx context.Context) (string, error)
}

type subnetService struct {
	transport *api.Transport
	logger    zerolog.Logger
}

func (s *subnetService) List(ctx context.Context, filters Filters, opts *ListOptions) ([]Subnet, error) {
	req := newListRequest(filters, opts, "")
	return doList[Subnet](ctx, s.transport, subnetsPath, req)
}

func (s *subnetService) ListAll(ctx context.Context, filters Filters, opts *ListOptions) ([]Subnet, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	return Collect(paginate[Subnet](ctx, s.transport, subnetsPath, newListRequest(filters, opts, "")))
}

func (s *subnetService) All(ctx context.Context, filters Filters, pageSize int) iter.Seq2[Subnet, error] {
	req := newListRequest(filters, &ListOptions{Limit: pageSize}, "")
	return paginate[Subnet](ctx, s.transport, subnetsPath, req)
}

func (s *subnetService) Get(ctx context.Context, id string) (*Subnet, error) {
	return doGet[Subnet](ctx, s.transport, fmt.Sprintf(subnetDetailPath, url.PathEscape(id)), nil)
}

func (s *subnetService) Create(ctx context.Context, spec SubnetSpec) (*Subnet, error) {
	return doResult[Subnet](ctx, s.transport, http.MethodPost, subnetsPath, spec)
}

func (s *subnetService) Update(ctx context.Context, id string, update SubnetUpdate) (*Subnet, error) {
	path := fmt.Sprintf(subnetDetailPath, url.PathEscape(id))
	return doResult[Subnet](ctx, s.transport, http.MethodPatch, path, update)
}

func (s *subnetService) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf(subnetDetailPath, url.PathEscape(id))
	return doAction(ctx, s.transport, http.MethodDelete, path, nil)
}

func (s *subnetService) ByName(ctx context.Context, name string) (*Subnet, error) {
	filters := NewFilterBuilder().Equals("name", name).Build()
	subnets, err := s.List(ctx, filters, &ListOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(subnets) == 0 {
		return nil, nil
	}
	return &subnets[0], nil
}

func (s *subnetService) ByOrganization(ctx context.Context, organization string, limit int) ([]Subnet, error) {
	filters := NewFilterBuilder().Equals("organization", organization).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}

func (s *subnetService) ByLocation(ctx context.Context, location string, limit int) ([]Subnet, error) {
	filters := NewFilterBuilder().Equals("location", location).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}

func (s *subnetService) ByCategory(ctx context.Context, category string, limit int) ([]Subnet, error) {
	filters := NewFilterBuilder().Equals("category", category).Build()
	return s.List(ctx, filters, &ListOptions{Limit: limit})
}

func (s *subnetService) BulkCreate(ctx context.Context, specs []SubnetSpec) ([]Subnet, error) {
	created := make([]Subnet, 0, len(specs))
	var failures []BulkFailure

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		subnet, err := s.Create(ctx, spec)
		if err != nil {
			s.logger.Warn().
				Str("subnet", spec.Name).
				Err(err).
				Msg("bulk subnet create: item failed")
			failures = append(failures, BulkFailure{Name: spec.Name, Err: err})
			continue
		}
		created = append(created, *subnet)
	}

	if len(failures) > 0 {
		return created, &BulkError{Failures: failures}
	}
	return created, nil
}

func (s *subnetService) Search(ctx context.Context, query string, limit int) ([]Subnet, error) {
	filters := NewFilterBuilder().Contains("name", query).Build()
	subnets, err := s.List(ctx, filters, &ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matched := make([]Subnet, 0, len(subnets))
	for _, subnet := range subnets {
		if strings.Contains(strings.ToLower(subnet.Name), needle) ||
			strings.Contains(strings.ToLower(subnet.Organization), needle) ||
			strings.Contains(strings.ToLower(subnet.Location), needle) {
			matched = append(matched, subnet)
		}
	}
	return matched, nil
}

func (s *subnetService) Report(ctx context.Context) (string, error) {
	subnets, err := s.ListAll(ctx, nil, nil)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("IP Subnet Configuration Report\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")
	fmt.Fprintf(&b, "Total Subnets: %d\n", len(subnets))

	byOrg := make(map[string][]Subnet)
	for _, subnet := range subnets {
		org := subnet.Organization
		if org == "" {
			org = "Unassigned"
		}
		byOrg[org] = append(byOrg[org], subnet)
	}

	orgs := make([]string, 0, len(byOrg))
	for org := range byOrg {
		orgs = append(orgs, org)
	}
	sort.Strings(orgs)

	for _, org := range orgs {
		fmt.Fprintf(&b, "\n%s\n", org)
		b.WriteString(strings.Repeat("-", len(org)) + "\n")
		for _, subnet := range byOrg[org] {
			fmt.Fprintf(&b, "  %s: %s (%s) [%s]\n",
				valueOr(subnet.Name, "N/A"),
				valueOr(subnet.OriginalRange, "N/A"),
				valueOr(subnet.Category, "N/A"),
				valueOr(subnet.Location, "N/A"))
		}
	}

	return b.String(), nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
