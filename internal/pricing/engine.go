package pricing

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// EngineVersion selects the computation rules. Gradual rollout of a revised
// formula happens by passing a version explicitly, never through ambient
// feature flags.
type EngineVersion int

// EngineVersion1 is the current algorithm of record: margin on the base
// subtotal, retention on the margin-inclusive base, one final rounding.
const EngineVersion1 EngineVersion = 1

// Engine runs the full pipeline: Validate → category calculators → Assemble.
// It holds no state between invocations other than a pure memoization cache
// for tier resolution, so a single Engine is safe to share across concurrent
// callers — the live calculator and the save path can use the same instance.
type Engine struct {
	version  EngineVersion
	memo     sync.Map // memoKey -> RateTier
	memoSize atomic.Int64
}

// memoKey identifies a resolution by the table's canonical fingerprint, not by
// pointer identity: callers rebuild equal tables from storage on every request,
// and those must all hit the same entry. The fingerprint covers every tier
// field, so distinct tables can never share a cached tier.
type memoKey struct {
	table string
	hours string
}

// maxMemoEntries caps the cache. The live calculator resolves a fresh hours
// value per keystroke, so without a bound the map would grow for the process
// lifetime. On overflow the whole cache is dropped; entries are cheap to
// recompute.
const maxMemoEntries = 4096

// NewEngine builds an engine for the given rule version.
func NewEngine(version EngineVersion) *Engine {
	return &Engine{version: version}
}

// Version reports the rule version this engine applies.
func (e *Engine) Version() EngineVersion {
	return e.version
}

func (e *Engine) resolve(table *RateTable, hours decimal.Decimal) (RateTier, error) {
	key := memoKey{table: table.fingerprint, hours: hours.String()}
	if cached, ok := e.memo.Load(key); ok {
		return cached.(RateTier), nil
	}
	tier, err := table.Resolve(hours)
	if err != nil {
		return RateTier{}, err
	}
	if _, loaded := e.memo.LoadOrStore(key, tier); !loaded {
		if e.memoSize.Add(1) > maxMemoEntries {
			e.memo.Clear()
			e.memoSize.Store(0)
		}
	}
	return tier, nil
}

// ComputeQuote maps a fully-formed quote input to its computation. It is
// all-or-nothing: validation failures stop the pipeline before any
// calculator runs, and a calculator error (for example a RateCoverageError
// raised mid-resolution) aborts the invocation entirely rather than
// substituting a default rate. On failure no partial computation is surfaced.
func (e *Engine) ComputeQuote(in QuoteInput) (*QuoteComputation, error) {
	if errs := Validate(in); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	labor, err := computeLaborWith(e.resolve, in.Employees)
	if err != nil {
		return nil, err
	}

	products, unattended, err := computeProductsWith(e.resolve, in.Products, in.Employees)
	if err != nil {
		return nil, err
	}

	machinery, err := ComputeMachinery(in.Machinery)
	if err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(labor)+len(products)+len(machinery))
	items = append(items, labor...)
	items = append(items, products...)
	items = append(items, machinery...)

	result := Assemble(items, in.Terms)
	result.UnattendedProductIDs = unattended
	return &result, nil
}

var defaultEngine = NewEngine(EngineVersion1)

// ComputeQuote runs the default (version 1) engine. Preview and save paths
// share it so the same inputs always produce bit-identical results.
func ComputeQuote(in QuoteInput) (*QuoteComputation, error) {
	return defaultEngine.ComputeQuote(in)
}
