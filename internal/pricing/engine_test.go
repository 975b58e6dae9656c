package pricing

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullQuoteInput(t *testing.T) QuoteInput {
	t.Helper()
	return QuoteInput{
		Employees: []EmployeeInput{{
			EmployeeID:         "emp-1",
			EmployeeType:       "chef",
			Hours:              dec("5"),
			Pricing:            TieredPricing(chefTable(t)),
			SelectedProductIDs: []string{"prod-1"},
		}},
		Products: []ProductInput{{
			ProductID:   "prod-1",
			Description: "buffet service",
			UnitCount:   dec("50"),
			Basis:       BasisQuantity,
			Pricing:     FlatPricing(dec("3000")),
		}},
		Terms: CommercialTerms{MarginPercent: dec("20"), RetentionPercent: dec("4")},
	}
}

func TestComputeQuote_EndToEnd(t *testing.T) {
	// labor 5*65000 = 325000, products 50*3000 = 150000 → total 547200.
	result, err := ComputeQuote(fullQuoteInput(t))
	require.NoError(t, err)

	assert.Equal(t, int64(325000), result.LaborSubtotal)
	assert.Equal(t, int64(150000), result.ProductsSubtotal)
	assert.Equal(t, int64(475000), result.BaseSubtotal)
	assert.Equal(t, int64(95000), result.MarginAmount)
	assert.Equal(t, int64(22800), result.RetentionAmount)
	assert.Equal(t, int64(547200), result.Total)
	assert.Len(t, result.LineItems, 2)
	assert.Empty(t, result.UnattendedProductIDs)
}

func TestComputeQuote_ValidationStopsThePipeline(t *testing.T) {
	in := fullQuoteInput(t)
	in.Employees[0].Hours = dec("0")
	in.Products[0].UnitCount = dec("-2")

	result, err := ComputeQuote(in)
	require.Error(t, err)
	assert.Nil(t, result, "no partial computation on failure")

	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
	// Both problems are reported, not just the first.
	assert.Contains(t, err.Error(), "emp-1")
	assert.Contains(t, err.Error(), "prod-1")
}

func TestComputeQuote_TermsOutOfRangeFails(t *testing.T) {
	for _, terms := range []CommercialTerms{
		{MarginPercent: dec("100"), RetentionPercent: dec("0")},
		{MarginPercent: dec("-1"), RetentionPercent: dec("0")},
		{MarginPercent: dec("0"), RetentionPercent: dec("100")},
	} {
		in := fullQuoteInput(t)
		in.Terms = terms
		_, err := ComputeQuote(in)
		var valErr *ValidationError
		require.Error(t, err)
		assert.True(t, errors.As(err, &valErr))
	}
}

func TestComputeQuote_CoverageErrorAbortsWithoutDefaulting(t *testing.T) {
	table, err := NewRateTable([]RateTier{
		{MinHours: dec("1"), MaxHours: nil, Rate: dec("70000")},
	})
	require.NoError(t, err)

	in := fullQuoteInput(t)
	in.Employees[0].Hours = dec("0.5")
	in.Employees[0].Pricing = TieredPricing(table)

	result, err := ComputeQuote(in)
	var covErr *RateCoverageError
	require.Error(t, err)
	assert.True(t, errors.As(err, &covErr))
	assert.Nil(t, result)
}

func TestComputeQuote_DeterministicAcrossInvocations(t *testing.T) {
	engine := NewEngine(EngineVersion1)

	first, err := engine.ComputeQuote(fullQuoteInput(t))
	require.NoError(t, err)
	second, err := engine.ComputeQuote(fullQuoteInput(t))
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestComputeQuote_ConcurrentCallersShareOneEngine(t *testing.T) {
	engine := NewEngine(EngineVersion1)
	in := fullQuoteInput(t)

	want, err := engine.ComputeQuote(in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := engine.ComputeQuote(in)
			assert.NoError(t, err)
			assert.Equal(t, want.Total, got.Total)
		}()
	}
	wg.Wait()
}

func TestComputeQuote_MemoizationDoesNotLeakAcrossTables(t *testing.T) {
	engine := NewEngine(EngineVersion1)

	cheap, err := NewRateTable([]RateTier{{MinHours: dec("0"), MaxHours: nil, Rate: dec("100")}})
	require.NoError(t, err)
	expensive, err := NewRateTable([]RateTier{{MinHours: dec("0"), MaxHours: nil, Rate: dec("900")}})
	require.NoError(t, err)

	run := func(table *RateTable) int64 {
		result, err := engine.ComputeQuote(QuoteInput{
			Employees: []EmployeeInput{{EmployeeID: "e", Hours: dec("2"), Pricing: TieredPricing(table)}},
		})
		require.NoError(t, err)
		return result.Total
	}

	assert.Equal(t, int64(200), run(cheap))
	assert.Equal(t, int64(1800), run(expensive), "memoized tier from a different table must not apply")
	assert.Equal(t, int64(200), run(cheap))
}

func memoLen(e *Engine) int {
	n := 0
	e.memo.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func TestComputeQuote_MemoSharedAcrossRebuiltTables(t *testing.T) {
	// The save and preview paths rebuild equal tables from storage per request.
	// Equal content must hit one cache entry, not accumulate one per pointer.
	engine := NewEngine(EngineVersion1)

	for i := 0; i < 500; i++ {
		table, err := NewRateTable([]RateTier{
			{MinHours: dec("0"), MaxHours: nil, Rate: dec("65000")},
		})
		require.NoError(t, err)

		result, err := engine.ComputeQuote(QuoteInput{
			Employees: []EmployeeInput{{EmployeeID: "e", Hours: dec("5"), Pricing: TieredPricing(table)}},
		})
		require.NoError(t, err)
		require.Equal(t, int64(325000), result.Total)
	}

	assert.Equal(t, 1, memoLen(engine))
}

func TestEngine_MemoIsBounded(t *testing.T) {
	engine := NewEngine(EngineVersion1)
	table := chefTable(t)

	for i := 0; i < maxMemoEntries+50; i++ {
		_, err := engine.resolve(table, dec(strconv.Itoa(i+1)))
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, memoLen(engine), maxMemoEntries)
}

func TestComputeQuote_JSONMoneyFieldsAreIntegers(t *testing.T) {
	result, err := ComputeQuote(fullQuoteInput(t))
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(547200), decoded["total"])
	assert.Equal(t, float64(475000), decoded["base_subtotal"])
}
