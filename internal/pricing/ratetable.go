package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateTier is one contiguous hour-or-quantity range with its unit rate.
// MaxHours == nil means the range is open-ended. Immutable once constructed.
type RateTier struct {
	MinHours    decimal.Decimal  `json:"min_hours"`
	MaxHours    *decimal.Decimal `json:"max_hours"` // nil = unbounded upper edge
	Rate        decimal.Decimal  `json:"rate"`      // integer currency units per hour/unit
	Description string           `json:"description"`
}

// Contains reports whether v falls inside the tier's half-open range
// [MinHours, MaxHours).
func (t RateTier) Contains(v decimal.Decimal) bool {
	if v.LessThan(t.MinHours) {
		return false
	}
	return t.MaxHours == nil || v.LessThan(*t.MaxHours)
}

// RateTable is an ordered, gap-free, non-overlapping set of tiers. A table
// that fails the contiguity invariant is rejected by NewRateTable, so
// resolution code never needs defensive checks.
type RateTable struct {
	tiers       []RateTier
	fingerprint string
}

// NewRateTable validates and builds a rate table from tiers sorted by
// MinHours ascending. Rules enforced here, not at lookup time:
//   - at least one tier
//   - tier[i].MaxHours == tier[i+1].MinHours (contiguous, no gaps/overlaps)
//   - only the last tier has MaxHours == nil
//   - every bounded tier spans a positive range
//   - rates are non-negative
func NewRateTable(tiers []RateTier) (*RateTable, error) {
	if len(tiers) == 0 {
		return nil, &ConfigurationError{Msg: "table must contain at least one tier"}
	}

	for i, tier := range tiers {
		if tier.MinHours.IsNegative() {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("tier %d: negative min hours %s", i, tier.MinHours)}
		}
		if tier.Rate.IsNegative() {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("tier %d: negative rate %s", i, tier.Rate)}
		}

		last := i == len(tiers)-1
		if last {
			if tier.MaxHours != nil {
				return nil, &ConfigurationError{Msg: "last tier must be open-ended (max hours = null)"}
			}
			continue
		}

		if tier.MaxHours == nil {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("tier %d: only the last tier may be open-ended", i)}
		}
		if !tier.MaxHours.GreaterThan(tier.MinHours) {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("tier %d: max hours %s must exceed min hours %s", i, tier.MaxHours, tier.MinHours)}
		}
		if !tiers[i+1].MinHours.Equal(*tier.MaxHours) {
			return nil, &ConfigurationError{Msg: fmt.Sprintf(
				"tier %d ends at %s but tier %d starts at %s (gap or overlap)",
				i, tier.MaxHours, i+1, tiers[i+1].MinHours)}
		}
	}

	copied := make([]RateTier, len(tiers))
	copy(copied, tiers)
	return &RateTable{tiers: copied, fingerprint: fingerprintTiers(copied)}, nil
}

// fingerprintTiers produces a canonical string for a tier list. Two tables
// built from equal tiers share a fingerprint even when they are distinct
// values, so content (not pointer identity) decides equality.
func fingerprintTiers(tiers []RateTier) string {
	var b strings.Builder
	for _, t := range tiers {
		b.WriteString(t.MinHours.String())
		b.WriteByte('-')
		if t.MaxHours != nil {
			b.WriteString(t.MaxHours.String())
		}
		b.WriteByte('@')
		b.WriteString(t.Rate.String())
		b.WriteByte('|')
		b.WriteString(t.Description)
		b.WriteByte(';')
	}
	return b.String()
}

// Floor returns the lowest hours value the table covers.
func (rt *RateTable) Floor() decimal.Decimal {
	return rt.tiers[0].MinHours
}

// Tiers returns a copy of the tier list.
func (rt *RateTable) Tiers() []RateTier {
	out := make([]RateTier, len(rt.tiers))
	copy(out, rt.tiers)
	return out
}

// Resolve returns the single tier covering hours. Because the table is
// contiguous by construction, exactly one tier matches any hours at or above
// the floor; below the floor it fails with RateCoverageError. Pure function.
func (rt *RateTable) Resolve(hours decimal.Decimal) (RateTier, error) {
	if hours.LessThan(rt.Floor()) {
		return RateTier{}, &RateCoverageError{Hours: hours, Floor: rt.Floor()}
	}
	for _, tier := range rt.tiers {
		if tier.Contains(hours) {
			return tier, nil
		}
	}
	// Unreachable for a constructed table; kept so a zero-value misuse fails loudly.
	return RateTier{}, &RateCoverageError{Hours: hours, Floor: rt.Floor()}
}
