package pricing

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Validate runs the pre-flight checks before any calculator touches the
// input: non-positive hours or quantities, tiered pricing without a table,
// operator machines without an operator rate, percentages outside [0, 100).
// It collects every problem instead of stopping at the first so the caller
// can surface them all at once. A non-empty result aborts the computation
// before any line item is produced.
func Validate(in QuoteInput) []error {
	var errs []error

	for _, emp := range in.Employees {
		if !emp.Hours.IsPositive() {
			errs = append(errs, &ValidationError{Field: "hours", RefID: emp.EmployeeID, Msg: "must be greater than zero"})
		}
		if emp.Pricing.Mode == PricingTiered && emp.Pricing.Table == nil {
			errs = append(errs, &ValidationError{Field: "rate_table", RefID: emp.EmployeeID, Msg: "tiered pricing without a rate table"})
		}
	}

	for _, prod := range in.Products {
		if !prod.UnitCount.IsPositive() {
			errs = append(errs, &ValidationError{Field: "unit_count", RefID: prod.ProductID, Msg: "must be greater than zero"})
		}
		if prod.Basis == BasisDuration && !prod.EventHours.IsPositive() {
			errs = append(errs, &ValidationError{Field: "event_hours", RefID: prod.ProductID, Msg: "must be greater than zero for duration-based pricing"})
		}
		if prod.Pricing.Mode == PricingTiered && prod.Pricing.Table == nil {
			errs = append(errs, &ValidationError{Field: "rate_table", RefID: prod.ProductID, Msg: "tiered pricing without a rate table"})
		}
	}

	for _, m := range in.Machinery {
		if !m.Hours.IsPositive() {
			errs = append(errs, &ValidationError{Field: "hours", RefID: m.MachineryID, Msg: "must be greater than zero"})
		}
		if m.RequiresOperator && m.OperatorHourlyRate == nil {
			errs = append(errs, &ValidationError{Field: "operator_hourly_rate", RefID: m.MachineryID, Msg: "machine requires an operator but no operator rate is set"})
		}
	}

	if err := validatePercent("margin_percent", in.Terms.MarginPercent); err != nil {
		errs = append(errs, err)
	}
	if err := validatePercent("retention_percent", in.Terms.RetentionPercent); err != nil {
		errs = append(errs, err)
	}

	return errs
}

func validatePercent(field string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThanOrEqual(oneHundred) {
		return &ValidationError{Field: field, Msg: "must be in [0, 100)"}
	}
	return nil
}
