package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLabor_TieredChefFiveHours(t *testing.T) {
	items, err := ComputeLabor([]EmployeeInput{{
		EmployeeID:   "emp-1",
		EmployeeType: "chef",
		Hours:        dec("5"),
		Pricing:      TieredPricing(chefTable(t)),
	}})
	require.NoError(t, err)
	require.Len(t, items, 1)

	// 5h lands in the open-ended 65000 tier: 5 * 65000 = 325000.
	assert.Equal(t, CategoryLabor, items[0].Category)
	assert.True(t, items[0].UnitRate.Equal(dec("65000")))
	assert.True(t, items[0].Amount.Equal(dec("325000")), "amount = %s", items[0].Amount)
}

func TestComputeLabor_FlatRate(t *testing.T) {
	items, err := ComputeLabor([]EmployeeInput{{
		EmployeeID:   "emp-2",
		EmployeeType: "waiter",
		Hours:        dec("6.5"),
		Pricing:      FlatPricing(dec("40000")),
	}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(dec("260000")))
}

func TestComputeLabor_NonPositiveHoursFails(t *testing.T) {
	for _, hours := range []string{"0", "-1"} {
		_, err := ComputeLabor([]EmployeeInput{{
			EmployeeID: "emp-3",
			Hours:      dec(hours),
			Pricing:    FlatPricing(dec("40000")),
		}})
		var valErr *ValidationError
		require.Error(t, err, "hours=%s", hours)
		assert.True(t, errors.As(err, &valErr))
	}
}

func TestComputeLabor_BelowFloorPropagatesCoverageError(t *testing.T) {
	table, err := NewRateTable([]RateTier{
		{MinHours: dec("1"), MaxHours: nil, Rate: dec("70000")},
	})
	require.NoError(t, err)

	_, err = ComputeLabor([]EmployeeInput{{
		EmployeeID: "emp-4",
		Hours:      dec("0.5"),
		Pricing:    TieredPricing(table),
	}})
	var covErr *RateCoverageError
	require.Error(t, err)
	assert.True(t, errors.As(err, &covErr))
}

func TestComputeProducts_QuantityBasis(t *testing.T) {
	table, err := NewRateTable([]RateTier{
		{MinHours: dec("0"), MaxHours: decPtr("50"), Rate: dec("3000")},
		{MinHours: dec("50"), MaxHours: nil, Rate: dec("2500")},
	})
	require.NoError(t, err)

	items, unattended, err := ComputeProducts([]ProductInput{{
		ProductID:   "prod-1",
		Description: "dinner plates",
		UnitCount:   dec("60"),
		Basis:       BasisQuantity,
		Pricing:     TieredPricing(table),
	}}, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// 60 units resolve into the 2500 tier: 60 * 2500 = 150000.
	assert.True(t, items[0].Amount.Equal(dec("150000")))
	assert.Equal(t, []string{"prod-1"}, unattended)
}

func TestComputeProducts_DurationBasis(t *testing.T) {
	items, _, err := ComputeProducts([]ProductInput{{
		ProductID:  "prod-2",
		UnitCount:  dec("1"),
		Basis:      BasisDuration,
		EventHours: dec("5"),
		Pricing:    FlatPricing(dec("20000")),
	}}, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(dec("5")))
	assert.True(t, items[0].Amount.Equal(dec("100000")))
}

func TestComputeProducts_DurationBasisBillsEveryUnit(t *testing.T) {
	// Three units for 5 hours each: 3 * 5 * 20000 = 300000, not the price of
	// a single unit.
	items, _, err := ComputeProducts([]ProductInput{{
		ProductID:  "prod-2b",
		UnitCount:  dec("3"),
		Basis:      BasisDuration,
		EventHours: dec("5"),
		Pricing:    FlatPricing(dec("20000")),
	}}, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(dec("15")))
	assert.True(t, items[0].Amount.Equal(dec("300000")), "amount = %s", items[0].Amount)
}

func TestComputeProducts_DurationTierResolvesOnHoursNotUnits(t *testing.T) {
	// 5h lands in the sub-10h tier even though 3 units * 5h = 15 would not.
	table, err := NewRateTable([]RateTier{
		{MinHours: dec("0"), MaxHours: decPtr("10"), Rate: dec("20000")},
		{MinHours: dec("10"), MaxHours: nil, Rate: dec("15000")},
	})
	require.NoError(t, err)

	items, _, err := ComputeProducts([]ProductInput{{
		ProductID:  "prod-2c",
		UnitCount:  dec("3"),
		Basis:      BasisDuration,
		EventHours: dec("5"),
		Pricing:    TieredPricing(table),
	}}, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitRate.Equal(dec("20000")))
	assert.True(t, items[0].Amount.Equal(dec("300000")))
}

func TestComputeProducts_UnattendedIsAdvisoryOnly(t *testing.T) {
	employees := []EmployeeInput{{
		EmployeeID:         "emp-1",
		Hours:              dec("4"),
		Pricing:            FlatPricing(dec("50000")),
		SelectedProductIDs: []string{"prod-a"},
	}}
	products := []ProductInput{
		{ProductID: "prod-a", UnitCount: dec("10"), Basis: BasisQuantity, Pricing: FlatPricing(dec("1000"))},
		{ProductID: "prod-b", UnitCount: dec("5"), Basis: BasisQuantity, Pricing: FlatPricing(dec("2000"))},
	}

	items, unattended, err := ComputeProducts(products, employees)
	require.NoError(t, err)
	require.Len(t, items, 2, "unattended products are still priced")
	assert.Equal(t, []string{"prod-b"}, unattended)
}

func TestComputeProducts_NonPositiveUnitCountFails(t *testing.T) {
	_, _, err := ComputeProducts([]ProductInput{{
		ProductID: "prod-3",
		UnitCount: dec("0"),
		Basis:     BasisQuantity,
		Pricing:   FlatPricing(dec("1000")),
	}}, nil)
	var valErr *ValidationError
	require.Error(t, err)
	assert.True(t, errors.As(err, &valErr))
}

func TestComputeMachinery_DailyRateBoundary(t *testing.T) {
	// hours = 8, hourly total 120000 > daily 100000 → daily rate selected.
	items, err := ComputeMachinery([]MachineryInput{{
		MachineryID: "mach-1",
		Hours:       dec("8"),
		HourlyRate:  dec("15000"),
		DailyRate:   dec("100000"),
	}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(dec("100000")))
	assert.True(t, items[0].UnitRate.Equal(dec("100000")))
}

func TestComputeMachinery_BelowThresholdForcesHourly(t *testing.T) {
	// hours = 7.99 keeps the hourly branch even though daily would be cheaper:
	// the threshold is hours first, cost second.
	items, err := ComputeMachinery([]MachineryInput{{
		MachineryID: "mach-2",
		Hours:       dec("7.99"),
		HourlyRate:  dec("15000"),
		DailyRate:   dec("100000"),
	}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(dec("119850")), "amount = %s", items[0].Amount)
}

func TestComputeMachinery_TieResolvesToHourly(t *testing.T) {
	// dailyRate == hourlyTotal → hourly wins; only switch when daily is
	// strictly cheaper.
	items, err := ComputeMachinery([]MachineryInput{{
		MachineryID: "mach-3",
		Hours:       dec("10"),
		HourlyRate:  dec("10000"),
		DailyRate:   dec("100000"),
	}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitRate.Equal(dec("10000")), "tie must stay on the hourly branch")
	assert.True(t, items[0].Amount.Equal(dec("100000")))
}

func TestComputeMachinery_OperatorIsASeparateLineItem(t *testing.T) {
	opRate := dec("20000")
	items, err := ComputeMachinery([]MachineryInput{{
		MachineryID:        "mach-4",
		Description:        "sound rig",
		Hours:              dec("10"),
		HourlyRate:         dec("15000"),
		DailyRate:          dec("100000"),
		RequiresOperator:   true,
		OperatorHourlyRate: &opRate,
	}})
	require.NoError(t, err)
	require.Len(t, items, 2, "operator cost must never be merged into the machine line")

	assert.True(t, items[0].Amount.Equal(dec("100000")), "daily rate for the machine itself")
	assert.True(t, items[1].Amount.Equal(dec("200000")), "operator billed hourly")
	assert.Equal(t, "sound rig (operator)", items[1].Description)
}

func TestComputeMachinery_MissingOperatorRateFails(t *testing.T) {
	_, err := ComputeMachinery([]MachineryInput{{
		MachineryID:      "mach-5",
		Hours:            dec("4"),
		HourlyRate:       dec("15000"),
		DailyRate:        dec("100000"),
		RequiresOperator: true,
	}})
	var valErr *ValidationError
	require.Error(t, err)
	assert.True(t, errors.As(err, &valErr))
}
