package cloudapps_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	cloudapps "github.com/cd1zz/defender-for-cloud-apps-api-client"
)

func TestFilterBuilder(t *testing.T) {
	t.Run("comparison operators", func(t *testing.T) {
		tests := []struct {
			name     string
			build    func(*cloudapps.FilterBuilder) *cloudapps.FilterBuilder
			field    string
			operator string
			value    any
		}{
			{
				name:     "equals",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.Equals("severity", 2) },
				field:    "severity",
				operator: "eq",
				value:    2,
			},
			{
				name:     "not equals",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.NotEquals("appTag", "sanctioned") },
				field:    "appTag",
				operator: "neq",
				value:    "sanctioned",
			},
			{
				name:     "contains",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.Contains("appName", "drop") },
				field:    "appName",
				operator: "contains",
				value:    "drop",
			},
			{
				name:     "starts with",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.StartsWith("fileName", "report") },
				field:    "fileName",
				operator: "startswith",
				value:    "report",
			},
			{
				name:     "ends with",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.EndsWith("fileName", ".xlsx") },
				field:    "fileName",
				operator: "endswith",
				value:    ".xlsx",
			},
			{
				name:     "greater than",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.GreaterThan("riskScore", 5) },
				field:    "riskScore",
				operator: "gt",
				value:    5,
			},
			{
				name:     "greater than or equal",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.GreaterThanOrEqual("date", int64(1000)) },
				field:    "date",
				operator: "gte",
				value:    int64(1000),
			},
			{
				name:     "less than",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.LessThan("riskScore", 3) },
				field:    "riskScore",
				operator: "lt",
				value:    3,
			},
			{
				name:     "less than or equal",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.LessThanOrEqual("date", int64(2000)) },
				field:    "date",
				operator: "lte",
				value:    int64(2000),
			},
			{
				name:     "is set",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.IsSet("policy") },
				field:    "policy",
				operator: "isset",
				value:    true,
			},
			{
				name:     "is not set",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.IsNotSet("policy") },
				field:    "policy",
				operator: "isnotset",
				value:    true,
			},
			{
				name:     "in last n days",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.InLastNDays("date", 7) },
				field:    "date",
				operator: "gte_ndays",
				value:    7,
			},
			{
				name:     "not in last n days",
				build:    func(b *cloudapps.FilterBuilder) *cloudapps.FilterBuilder { return b.NotInLastNDays("date", 30) },
				field:    "date",
				operator: "lte_ndays",
				value:    30,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				filters := tt.build(cloudapps.NewFilterBuilder()).Build()
				assert.Equal(t, cloudapps.Filters{
					tt.field: {tt.operator: tt.value},
				}, filters)
			})
		}
	})

	t.Run("date range shape", func(t *testing.T) {
		filters := cloudapps.NewFilterBuilder().
			DateRange("timestamp", 1000, 2000).
			Build()

		assert.Equal(t, cloudapps.Filters{
			"timestamp": {"range": map[string]int64{"start": 1000, "end": 2000}},
		}, filters)
	})

	t.Run("chaining accumulates fields", func(t *testing.T) {
		filters := cloudapps.NewFilterBuilder().
			Equals("user.username", "admin@example.com").
			GreaterThanOrEqual("severity", 1).
			Build()

		assert.Len(t, filters, 2)
		assert.Equal(t, map[string]any{"eq": "admin@example.com"}, filters["user.username"])
		assert.Equal(t, map[string]any{"gte": 1}, filters["severity"])
	})

	t.Run("setting a field twice overwrites", func(t *testing.T) {
		filters := cloudapps.NewFilterBuilder().
			Equals("severity", 1).
			GreaterThanOrEqual("severity", 2).
			Build()

		assert.Equal(t, cloudapps.Filters{
			"severity": {"gte": 2},
		}, filters)
	})

	t.Run("custom operator", func(t *testing.T) {
		filters := cloudapps.NewFilterBuilder().
			Custom("instance", "cabinetmatchedrulesequals", []int{1234}).
			Build()

		assert.Equal(t, cloudapps.Filters{
			"instance": {"cabinetmatchedrulesequals": []int{1234}},
		}, filters)
	})

	t.Run("clear empties the builder", func(t *testing.T) {
		builder := cloudapps.NewFilterBuilder().Equals("severity", 2)
		filters := builder.Clear().Build()
		assert.Empty(t, filters)
	})
}

func TestTimeHelpers(t *testing.T) {
	t.Run("millis round trip", func(t *testing.T) {
		now := time.Now().Truncate(time.Millisecond)
		assert.True(t, cloudapps.FromMillis(cloudapps.ToMillis(now)).Equal(now))
	})

	t.Run("days ago is in the past", func(t *testing.T) {
		sevenDays := cloudapps.DaysAgoMillis(7)
		assert.Less(t, sevenDays, cloudapps.NowMillis())

		diff := time.Since(cloudapps.FromMillis(sevenDays))
		assert.InDelta(t, (7 * 24 * time.Hour).Hours(), diff.Hours(), 1.0)
	})

	t.Run("hours ago is in the past", func(t *testing.T) {
		threeHours := cloudapps.HoursAgoMillis(3)
		diff := time.Since(cloudapps.FromMillis(threeHours))
		assert.InDelta(t, (3 * time.Hour).Minutes(), diff.Minutes(), 1.0)
	})
}
