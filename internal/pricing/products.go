package pricing

// ComputeProducts prices each product line. The tier (or flat rate) resolves
// against the product's configured basis: unit count for quantity-tiered
// products, elapsed event hours for duration-tiered ones. Billing is always
// per unit: a quantity product is rate times unit count, a duration product
// is rate times event hours times unit count.
//
// The second return lists products with zero associated employees across all
// EmployeeInput selections. Such products are still priced — they may be
// billed independently of staffing — but the caller can warn on them. The
// flag never blocks computation.
func ComputeProducts(products []ProductInput, employees []EmployeeInput) ([]LineItem, []string, error) {
	return computeProductsWith(defaultResolve, products, employees)
}

func computeProductsWith(resolve tierResolver, products []ProductInput, employees []EmployeeInput) ([]LineItem, []string, error) {
	attended := make(map[string]bool)
	for _, emp := range employees {
		for _, id := range emp.SelectedProductIDs {
			attended[id] = true
		}
	}

	items := make([]LineItem, 0, len(products))
	var unattended []string

	for _, prod := range products {
		if !prod.UnitCount.IsPositive() {
			return nil, nil, &ValidationError{Field: "unit_count", RefID: prod.ProductID, Msg: "must be greater than zero"}
		}

		basis := prod.UnitCount
		quantity := prod.UnitCount
		if prod.Basis == BasisDuration {
			if !prod.EventHours.IsPositive() {
				return nil, nil, &ValidationError{Field: "event_hours", RefID: prod.ProductID, Msg: "must be greater than zero for duration-based pricing"}
			}
			// The tier resolves on elapsed hours alone; every unit then bills
			// those hours at the resolved rate.
			basis = prod.EventHours
			quantity = prod.EventHours.Mul(prod.UnitCount)
		}

		rate := prod.Pricing.FlatRate
		if prod.Pricing.Mode == PricingTiered {
			if prod.Pricing.Table == nil {
				return nil, nil, &ValidationError{Field: "rate_table", RefID: prod.ProductID, Msg: "tiered pricing without a rate table"}
			}
			tier, err := resolve(prod.Pricing.Table, basis)
			if err != nil {
				return nil, nil, err
			}
			rate = tier.Rate
		}

		items = append(items, LineItem{
			Category:    CategoryProduct,
			RefID:       prod.ProductID,
			Description: prod.Description,
			Quantity:    quantity,
			UnitRate:    rate,
			Amount:      rate.Mul(quantity),
		})

		if !attended[prod.ProductID] {
			unattended = append(unattended, prod.ProductID)
		}
	}

	return items, unattended, nil
}
