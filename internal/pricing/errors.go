package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed or out-of-range input: non-positive hours
// or quantities, a missing operator rate, percentages outside [0, 100).
// Recoverable — the caller surfaces it and requests corrected input.
type ValidationError struct {
	Field string // which input field failed
	RefID string // employee/product/machinery reference, if any
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.RefID != "" {
		return fmt.Sprintf("validation: %s (%s): %s", e.Field, e.RefID, e.Msg)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// RateCoverageError reports that no tier covers the requested hours or
// quantity, e.g. a 0.5-hour booking against a table whose first tier starts
// at 1 hour. This is a real business condition and is never silently clamped.
type RateCoverageError struct {
	Hours decimal.Decimal
	Floor decimal.Decimal
}

func (e *RateCoverageError) Error() string {
	return fmt.Sprintf("no rate tier covers %s hours (table starts at %s)", e.Hours, e.Floor)
}

// ConfigurationError reports a rate table that fails the contiguity invariant
// at construction time. Downstream resolution code never sees such a table.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "rate table configuration: " + e.Msg
}
