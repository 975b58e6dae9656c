package pricing

import "github.com/shopspring/decimal"

// tierResolver lets the engine swap in a memoized lookup without changing
// calculator logic.
type tierResolver func(*RateTable, decimal.Decimal) (RateTier, error)

func defaultResolve(table *RateTable, hours decimal.Decimal) (RateTier, error) {
	return table.Resolve(hours)
}

// ComputeLabor prices each employee and emits one line item apiece. It does
// not aggregate — that is the assembler's job — so it stays stateless and
// independently testable.
func ComputeLabor(employees []EmployeeInput) ([]LineItem, error) {
	return computeLaborWith(defaultResolve, employees)
}

func computeLaborWith(resolve tierResolver, employees []EmployeeInput) ([]LineItem, error) {
	items := make([]LineItem, 0, len(employees))

	for _, emp := range employees {
		if !emp.Hours.IsPositive() {
			return nil, &ValidationError{Field: "hours", RefID: emp.EmployeeID, Msg: "must be greater than zero"}
		}

		rate := emp.Pricing.FlatRate
		if emp.Pricing.Mode == PricingTiered {
			if emp.Pricing.Table == nil {
				return nil, &ValidationError{Field: "rate_table", RefID: emp.EmployeeID, Msg: "tiered pricing without a rate table"}
			}
			tier, err := resolve(emp.Pricing.Table, emp.Hours)
			if err != nil {
				return nil, err
			}
			rate = tier.Rate
		}

		items = append(items, LineItem{
			Category:    CategoryLabor,
			RefID:       emp.EmployeeID,
			Description: emp.EmployeeType,
			Quantity:    emp.Hours,
			UnitRate:    rate,
			Amount:      rate.Mul(emp.Hours),
		})
	}

	return items, nil
}
