package cloudapps

import "time"

// Filters maps a field path (dot-qualified, e.g. "user.username") to a
// single {operator: value} comparison. It is the shape the API expects in
// the "filters" key of list request bodies.
type Filters map[string]map[string]any

// FilterBuilder is a fluent builder for Filters. Each comparison method
// stores one operator for a field and returns the builder for chaining;
// setting the same field twice overwrites, it does not conjoin. Field
// names and values are passed through unvalidated since the API defines
// the vocabulary; bad input surfaces as an API error, not a builder error.
//
//	filters := cloudapps.NewFilterBuilder().
//	    Equals("user.username", "admin@example.com").
//	    GreaterThanOrEqual("date", cloudapps.DaysAgoMillis(7)).
//	    Build()
type FilterBuilder struct {
	filters Filters
}

// NewFilterBuilder returns an empty filter builder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{filters: Filters{}}
}

// Equals adds an equality comparison (eq).
func (b *FilterBuilder) Equals(field string, value any) *FilterBuilder {
	return b.Custom(field, "eq", value)
}

// NotEquals adds a not-equals comparison (neq).
func (b *FilterBuilder) NotEquals(field string, value any) *FilterBuilder {
	return b.Custom(field, "neq", value)
}

// Contains adds a substring comparison for text fields.
func (b *FilterBuilder) Contains(field, value string) *FilterBuilder {
	return b.Custom(field, "contains", value)
}

// StartsWith adds a prefix comparison for text fields.
func (b *FilterBuilder) StartsWith(field, value string) *FilterBuilder {
	return b.Custom(field, "startswith", value)
}

// EndsWith adds a suffix comparison for text fields.
func (b *FilterBuilder) EndsWith(field, value string) *FilterBuilder {
	return b.Custom(field, "endswith", value)
}

// GreaterThan adds an exclusive lower bound (gt).
func (b *FilterBuilder) GreaterThan(field string, value any) *FilterBuilder {
	return b.Custom(field, "gt", value)
}

// GreaterThanOrEqual adds an inclusive lower bound (gte).
func (b *FilterBuilder) GreaterThanOrEqual(field string, value any) *FilterBuilder {
	return b.Custom(field, "gte", value)
}

// LessThan adds an exclusive upper bound (lt).
func (b *FilterBuilder) LessThan(field string, value any) *FilterBuilder {
	return b.Custom(field, "lt", value)
}

// LessThanOrEqual adds an inclusive upper bound (lte).
func (b *FilterBuilder) LessThanOrEqual(field string, value any) *FilterBuilder {
	return b.Custom(field, "lte", value)
}

// DateRange bounds a timestamp field to [start, end], both in milliseconds
// since the epoch.
func (b *FilterBuilder) DateRange(field string, start, end int64) *FilterBuilder {
	return b.Custom(field, "range", map[string]int64{"start": start, "end": end})
}

// IsSet matches records where the field has a value.
func (b *FilterBuilder) IsSet(field string) *FilterBuilder {
	return b.Custom(field, "isset", true)
}

// IsNotSet matches records where the field has no value.
func (b *FilterBuilder) IsNotSet(field string) *FilterBuilder {
	return b.Custom(field, "isnotset", true)
}

// InLastNDays matches timestamps within the last N days (gte_ndays).
func (b *FilterBuilder) InLastNDays(field string, days int) *FilterBuilder {
	return b.Custom(field, "gte_ndays", days)
}

// NotInLastNDays matches timestamps older than N days (lte_ndays).
func (b *FilterBuilder) NotInLastNDays(field string, days int) *FilterBuilder {
	return b.Custom(field, "lte_ndays", days)
}

// Custom adds an arbitrary operator/value pair. Escape hatch for operators
// without a convenience method.
func (b *FilterBuilder) Custom(field, operator string, value any) *FilterBuilder {
	b.filters[field] = map[string]any{operator: value}
	return b
}

// Build returns the accumulated filter map.
func (b *FilterBuilder) Build() Filters {
	return b.filters
}

// Clear empties the builder in place.
func (b *FilterBuilder) Clear() *FilterBuilder {
	b.filters = Filters{}
	return b
}

// The API expresses every timestamp as milliseconds since the epoch.

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// DaysAgoMillis returns the epoch-millisecond timestamp N days ago.
func DaysAgoMillis(days int) int64 {
	return time.Now().AddDate(0, 0, -days).UnixMilli()
}

// HoursAgoMillis returns the epoch-millisecond timestamp N hours ago.
func HoursAgoMillis(hours int) int64 {
	return time.Now().Add(-time.Duration(hours) * time.Hour).UnixMilli()
}

// ToMillis converts a time.Time to epoch milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a time.Time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
