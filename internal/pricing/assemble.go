package pricing

import "github.com/shopspring/decimal"

// QuoteComputation is the immutable result of one assembly. The subtotal and
// amount fields are independently rounded display values in integer currency
// units; Total is derived from the unrounded intermediates and rounded
// exactly once. Callers must never re-derive a total by summing the rounded
// fields — replaying Assemble over the same line items and terms is the only
// sanctioned way to reproduce Total.
type QuoteComputation struct {
	LaborSubtotal     int64      `json:"labor_subtotal"`
	ProductsSubtotal  int64      `json:"products_subtotal"`
	MachinerySubtotal int64      `json:"machinery_subtotal"`
	BaseSubtotal      int64      `json:"base_subtotal"`
	MarginAmount      int64      `json:"margin_amount"`
	RetentionAmount   int64      `json:"retention_amount"`
	Total             int64      `json:"total"`
	LineItems         []LineItem `json:"line_items"`

	// UnattendedProductIDs lists products priced without any associated
	// employee. Advisory only.
	UnattendedProductIDs []string `json:"unattended_product_ids,omitempty"`
}

var half = decimal.NewFromFloat(0.5)

// roundHalfUp rounds to the nearest currency unit, halves up. This is the
// single rounding rule of the engine and it runs once per surfaced field.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

// Assemble folds line items into the final computation. Order of operations
// is fixed and load-bearing:
//
//  1. partition by category, sum amounts unrounded
//  2. baseSubtotal = labor + products + machinery (unrounded)
//  3. marginAmount = baseSubtotal * marginPercent/100 (unrounded)
//  4. retentionAmount = (baseSubtotal + marginAmount) * retentionPercent/100 —
//     retention applies to the margin-inclusive base, not the bare subtotal
//  5. total = roundHalfUp(baseSubtotal + marginAmount - retentionAmount)
//
// Reordering steps 3 and 4, or rounding before step 5, is exactly the class
// of bug that makes a displayed total and a persisted total diverge.
func Assemble(items []LineItem, terms CommercialTerms) QuoteComputation {
	labor := decimal.Zero
	products := decimal.Zero
	machinery := decimal.Zero

	for _, item := range items {
		switch item.Category {
		case CategoryLabor:
			labor = labor.Add(item.Amount)
		case CategoryProduct:
			products = products.Add(item.Amount)
		case CategoryMachinery:
			machinery = machinery.Add(item.Amount)
		}
	}

	base := labor.Add(products).Add(machinery)
	margin := base.Mul(terms.MarginPercent).Div(oneHundred)
	retention := base.Add(margin).Mul(terms.RetentionPercent).Div(oneHundred)

	return QuoteComputation{
		LaborSubtotal:     roundHalfUp(labor),
		ProductsSubtotal:  roundHalfUp(products),
		MachinerySubtotal: roundHalfUp(machinery),
		BaseSubtotal:      roundHalfUp(base),
		MarginAmount:      roundHalfUp(margin),
		RetentionAmount:   roundHalfUp(retention),
		Total:             roundHalfUp(base.Add(margin).Sub(retention)),
		LineItems:         items,
	}
}
