package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laborItem(amount string) LineItem {
	return LineItem{Category: CategoryLabor, RefID: "emp", Quantity: dec("1"), UnitRate: dec(amount), Amount: dec(amount)}
}

func productItem(amount string) LineItem {
	return LineItem{Category: CategoryProduct, RefID: "prod", Quantity: dec("1"), UnitRate: dec(amount), Amount: dec(amount)}
}

func TestAssemble_EndToEndScenario(t *testing.T) {
	// labor 325000 + products 150000, margin 20%, retention 4%:
	// base 475000, margin 95000, retention (475000+95000)*0.04 = 22800,
	// total 475000 + 95000 - 22800 = 547200.
	result := Assemble(
		[]LineItem{laborItem("325000"), productItem("150000")},
		CommercialTerms{MarginPercent: dec("20"), RetentionPercent: dec("4")},
	)

	assert.Equal(t, int64(325000), result.LaborSubtotal)
	assert.Equal(t, int64(150000), result.ProductsSubtotal)
	assert.Equal(t, int64(0), result.MachinerySubtotal)
	assert.Equal(t, int64(475000), result.BaseSubtotal)
	assert.Equal(t, int64(95000), result.MarginAmount)
	assert.Equal(t, int64(22800), result.RetentionAmount)
	assert.Equal(t, int64(547200), result.Total)
}

func TestAssemble_RetentionAppliesToMarginInclusiveBase(t *testing.T) {
	items := []LineItem{laborItem("100000")}
	terms := CommercialTerms{MarginPercent: dec("20"), RetentionPercent: dec("10")}

	result := Assemble(items, terms)

	// Correct order: retention = (100000 + 20000) * 10% = 12000.
	assert.Equal(t, int64(12000), result.RetentionAmount)
	assert.Equal(t, int64(108000), result.Total)

	// Applying retention to the bare subtotal would give 10000 — assert the
	// two orderings genuinely differ whenever both percentages are positive.
	retentionOnBare := dec("100000").Mul(terms.RetentionPercent).Div(oneHundred)
	assert.False(t, retentionOnBare.Equal(decimal.NewFromInt(result.RetentionAmount)))
}

func TestAssemble_Idempotence(t *testing.T) {
	items := []LineItem{
		laborItem("123457"),
		productItem("98765"),
		{Category: CategoryMachinery, RefID: "mach", Quantity: dec("3.5"), UnitRate: dec("14999"), Amount: dec("52496.5")},
	}
	terms := CommercialTerms{MarginPercent: dec("17.5"), RetentionPercent: dec("3.5")}

	first := Assemble(items, terms)
	second := Assemble(items, terms)

	assert.Equal(t, first, second, "identical inputs must yield bit-identical computations")
}

func TestAssemble_TotalDerivedFromUnroundedIntermediates(t *testing.T) {
	// Fractional amounts chosen so that summing the rounded display fields
	// disagrees with the correctly derived total:
	//   base      = 100000.45        → display 100000
	//   margin    = 50000.225 (50%)  → display 50000
	//   retention = 1500.00675 (1% of 150000.675) → display 1500
	//   total     = round(148500.66825) = 148501, naive sum = 148500
	items := []LineItem{
		{Category: CategoryLabor, RefID: "a", Quantity: dec("1"), UnitRate: dec("100000.45"), Amount: dec("100000.45")},
	}
	terms := CommercialTerms{MarginPercent: dec("50"), RetentionPercent: dec("1")}

	result := Assemble(items, terms)

	base := dec("100000.45")
	margin := base.Mul(dec("50")).Div(oneHundred)
	retention := base.Add(margin).Mul(dec("1")).Div(oneHundred)
	wantTotal := roundHalfUp(base.Add(margin).Sub(retention))

	require.Equal(t, wantTotal, result.Total)
	require.Equal(t, int64(148501), result.Total)

	summedDisplayFields := result.BaseSubtotal + result.MarginAmount - result.RetentionAmount
	assert.NotEqual(t, summedDisplayFields, result.Total,
		"summing the rounded display fields must not reproduce the total for fractional inputs")

	// Display subtotals are each rounded independently from the unrounded
	// partition sums.
	assert.Equal(t, int64(100000), result.LaborSubtotal)
	assert.Equal(t, int64(100000), result.BaseSubtotal)
	assert.Equal(t, int64(50000), result.MarginAmount)
	assert.Equal(t, int64(1500), result.RetentionAmount)
}

func TestAssemble_ZeroTerms(t *testing.T) {
	result := Assemble([]LineItem{laborItem("250000")}, CommercialTerms{})
	assert.Equal(t, int64(0), result.MarginAmount)
	assert.Equal(t, int64(0), result.RetentionAmount)
	assert.Equal(t, int64(250000), result.Total)
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"2.4", 2},
		{"2.5", 3},
		{"2.6", 3},
		{"547199.5", 547200},
		{"547200.49", 547200},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundHalfUp(dec(tt.in)), "roundHalfUp(%s)", tt.in)
	}
}
