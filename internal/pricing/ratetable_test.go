package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

// chefTable is the canonical three-tier table used across the test suite:
// 0–1h at 80000, 1–4h at 70000, 4h+ at 65000.
func chefTable(t *testing.T) *RateTable {
	t.Helper()
	table, err := NewRateTable([]RateTier{
		{MinHours: dec("0"), MaxHours: decPtr("1"), Rate: dec("80000"), Description: "up to 1h"},
		{MinHours: dec("1"), MaxHours: decPtr("4"), Rate: dec("70000"), Description: "1-4h"},
		{MinHours: dec("4"), MaxHours: nil, Rate: dec("65000"), Description: "4h+"},
	})
	require.NoError(t, err)
	return table
}

func TestNewRateTable_RejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name  string
		tiers []RateTier
	}{
		{name: "empty", tiers: nil},
		{
			name: "gap between tiers",
			tiers: []RateTier{
				{MinHours: dec("0"), MaxHours: decPtr("1"), Rate: dec("100")},
				{MinHours: dec("2"), MaxHours: nil, Rate: dec("90")},
			},
		},
		{
			name: "overlapping tiers",
			tiers: []RateTier{
				{MinHours: dec("0"), MaxHours: decPtr("3"), Rate: dec("100")},
				{MinHours: dec("2"), MaxHours: nil, Rate: dec("90")},
			},
		},
		{
			name: "bounded last tier",
			tiers: []RateTier{
				{MinHours: dec("0"), MaxHours: decPtr("4"), Rate: dec("100")},
			},
		},
		{
			name: "open-ended middle tier",
			tiers: []RateTier{
				{MinHours: dec("0"), MaxHours: nil, Rate: dec("100")},
				{MinHours: dec("4"), MaxHours: nil, Rate: dec("90")},
			},
		},
		{
			name: "empty span",
			tiers: []RateTier{
				{MinHours: dec("2"), MaxHours: decPtr("2"), Rate: dec("100")},
				{MinHours: dec("2"), MaxHours: nil, Rate: dec("90")},
			},
		},
		{
			name: "negative rate",
			tiers: []RateTier{
				{MinHours: dec("0"), MaxHours: nil, Rate: dec("-1")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRateTable(tt.tiers)
			var cfgErr *ConfigurationError
			require.Error(t, err)
			assert.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %T", err)
		})
	}
}

func TestResolve_SelectsTheSingleCoveringTier(t *testing.T) {
	table := chefTable(t)

	tests := []struct {
		hours    string
		wantRate string
	}{
		{hours: "0", wantRate: "80000"},
		{hours: "0.5", wantRate: "80000"},
		{hours: "1", wantRate: "70000"}, // lower edge inclusive
		{hours: "3.99", wantRate: "70000"},
		{hours: "4", wantRate: "65000"}, // upper edge exclusive
		{hours: "5", wantRate: "65000"},
		{hours: "500", wantRate: "65000"}, // open-ended tier
	}

	for _, tt := range tests {
		tier, err := table.Resolve(dec(tt.hours))
		require.NoError(t, err, "hours=%s", tt.hours)
		assert.True(t, tier.Rate.Equal(dec(tt.wantRate)), "hours=%s: rate = %s, want %s", tt.hours, tier.Rate, tt.wantRate)
		assert.True(t, tier.Contains(dec(tt.hours)), "hours=%s: returned tier does not contain the value", tt.hours)
	}
}

func TestResolve_BelowFloorFailsWithCoverageError(t *testing.T) {
	table, err := NewRateTable([]RateTier{
		{MinHours: dec("1"), MaxHours: decPtr("4"), Rate: dec("70000")},
		{MinHours: dec("4"), MaxHours: nil, Rate: dec("65000")},
	})
	require.NoError(t, err)

	_, err = table.Resolve(dec("0.5"))
	var covErr *RateCoverageError
	require.Error(t, err)
	require.True(t, errors.As(err, &covErr))
	assert.True(t, covErr.Hours.Equal(dec("0.5")))
	assert.True(t, covErr.Floor.Equal(dec("1")))
}

func TestResolve_CoverageTotality(t *testing.T) {
	table := chefTable(t)

	// Every value at or above the floor resolves to exactly one tier whose
	// range contains it.
	for _, hours := range []string{"0", "0.25", "0.999", "1", "2.5", "3.9999", "4", "8", "24", "1000"} {
		tier, err := table.Resolve(dec(hours))
		require.NoError(t, err, "hours=%s", hours)

		matches := 0
		for _, candidate := range table.Tiers() {
			if candidate.Contains(dec(hours)) {
				matches++
			}
		}
		require.Equal(t, 1, matches, "hours=%s covered by %d tiers", hours, matches)
		assert.True(t, tier.Contains(dec(hours)))
	}
}

func TestTiers_ReturnsACopy(t *testing.T) {
	table := chefTable(t)
	tiers := table.Tiers()
	tiers[0].Rate = dec("1")

	tier, err := table.Resolve(dec("0.5"))
	require.NoError(t, err)
	assert.True(t, tier.Rate.Equal(dec("80000")), "mutating the returned slice must not affect the table")
}
