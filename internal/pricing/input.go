package pricing

import "github.com/shopspring/decimal"

// PricingMode selects how an employee or product is billed. The explicit
// variant replaces the "whichever field is present wins" convention the
// calculator UI used to rely on.
type PricingMode int

const (
	// PricingFlat applies a single rate regardless of duration/quantity.
	PricingFlat PricingMode = iota
	// PricingTiered resolves the rate from a RateTable.
	PricingTiered
)

// Pricing is a tagged variant: exactly one of FlatRate/Table is active,
// selected by Mode. Build it with FlatPricing or TieredPricing.
type Pricing struct {
	Mode     PricingMode
	FlatRate decimal.Decimal
	Table    *RateTable
}

// FlatPricing builds a flat-rate pricing mode.
func FlatPricing(rate decimal.Decimal) Pricing {
	return Pricing{Mode: PricingFlat, FlatRate: rate}
}

// TieredPricing builds a tiered pricing mode backed by a validated table.
func TieredPricing(table *RateTable) Pricing {
	return Pricing{Mode: PricingTiered, Table: table}
}

// TierBasis selects what a tiered product resolves its tier against.
type TierBasis int

const (
	// BasisQuantity resolves tiers against the product's unit count.
	BasisQuantity TierBasis = iota
	// BasisDuration resolves tiers against the elapsed event hours.
	BasisDuration
)

// EmployeeInput is one staffed employee on a quote draft.
type EmployeeInput struct {
	EmployeeID         string
	EmployeeType       string
	Hours              decimal.Decimal
	Pricing            Pricing
	SelectedProductIDs []string
}

// ProductInput is one product line on a quote draft. The tier basis is part
// of the product's own configuration, carried here rather than decided by
// the calculator.
type ProductInput struct {
	ProductID   string
	Description string
	UnitCount   decimal.Decimal
	Basis       TierBasis
	EventHours  decimal.Decimal // used when Basis == BasisDuration
	Pricing     Pricing
}

// MachineryInput is one machine on a quote draft.
type MachineryInput struct {
	MachineryID        string
	Description        string
	Hours              decimal.Decimal
	HourlyRate         decimal.Decimal
	DailyRate          decimal.Decimal
	RequiresOperator   bool
	OperatorHourlyRate *decimal.Decimal
}

// CommercialTerms carries the quote-level percentages, both in [0, 100).
type CommercialTerms struct {
	MarginPercent    decimal.Decimal
	RetentionPercent decimal.Decimal
}

// QuoteInput is the full, internally consistent input to one computation.
type QuoteInput struct {
	Employees []EmployeeInput
	Products  []ProductInput
	Machinery []MachineryInput
	Terms     CommercialTerms
}

// Category partitions line items for subtotal assembly.
type Category string

const (
	CategoryLabor     Category = "labor"
	CategoryProduct   Category = "product"
	CategoryMachinery Category = "machinery"
)

// LineItem is one priced contribution to a quote: one employee, one product,
// one machine, or one operator. Produced by the category calculators and
// never mutated afterwards. Amount is kept unrounded so the assembler can
// derive the total from full-precision intermediates.
type LineItem struct {
	Category    Category        `json:"category"`
	RefID       string          `json:"ref_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	Amount      decimal.Decimal `json:"amount"`
}
