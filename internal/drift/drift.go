// Package drift mutates canonical structures into controlled, repairable
// deviations. Every variant is a pure function from (structure, parameters)
// to a fresh structure; randomness comes only from an explicit per-call
// seed, so any mutation sequence is replayable.
package drift

import (
	"math/rand"

	"driftwood/internal/schema"
	"driftwood/internal/tree"
)

// Kind names a drift transformation.
type Kind string

const (
	KindRename  Kind = "rename"
	KindWrap    Kind = "wrap"
	KindFlatten Kind = "flatten"
	KindReorder Kind = "reorder"
	KindCoerce  Kind = "coerce-type"
	KindExtra   Kind = "extra-key"
)

// Kinds lists every registered variant kind in catalog order.
func Kinds() []Kind {
	return []Kind{KindRename, KindWrap, KindFlatten, KindReorder, KindCoerce, KindExtra}
}

// Applied is the ground-truth record of one variant that actually fired:
// its kind, the section it targeted, and its chosen parameters.
type Applied struct {
	Kind    Kind           `json:"kind"`
	Section string         `json:"section"`
	Path    tree.Path      `json:"path"`
	Params  map[string]any `json:"params,omitempty"`
}

// Record is the ordered list of variants applied to produce a mutated
// structure. It exists for evaluation and debugging only; the repair
// executor never sees it.
type Record struct {
	Seed    int64     `json:"seed,omitempty"`
	Applied []Applied `json:"applied"`
}

// Selector chooses which variants to apply. Named is the deterministic
// mode; Randomized composes a seeded random subset of the catalog.
type Selector interface {
	selectVariants(e *Engine) ([]variant, *rand.Rand, int64, error)
}

// Named selects a single variant kind. Params may pin variant choices
// (e.g. "to" for rename); unset parameters fall back to the first
// vocabulary entry so the selection stays deterministic.
type Named struct {
	Kind    Kind
	Section string
	Params  map[string]any
}

// Randomized composes variants chosen by coin flips from an explicit seed.
// At least one variant is always attempted. Order controls whether rename
// runs before wrap when both are chosen.
type Randomized struct {
	Seed  int64
	Order Order
}

// Order fixes the rename/wrap sequencing for composite drift.
type Order string

const (
	OrderRenameThenWrap Order = "rename-then-wrap"
	OrderWrapThenRename Order = "wrap-then-rename"
	OrderRandom         Order = "random"
)

// Engine applies drift variants described by a schema's vocabulary.
type Engine struct {
	schema *schema.Schema
}

// New creates a drift engine for the given schema. The schema supplies the
// rename spellings, wrapper keys, noise keys, and coercible pairs variants
// draw their parameters from.
func New(s *schema.Schema) *Engine {
	return &Engine{schema: s}
}

// Apply drifts a canonical structure. The input is never modified; the
// returned structure is fresh. The record lists only variants that actually
// fired — a variant whose precondition is unmet skips silently.
func (e *Engine) Apply(canonical any, sel Selector) (any, *Record, error) {
	variants, rng, seed, err := sel.selectVariants(e)
	if err != nil {
		return nil, nil, err
	}

	cur := tree.Clone(canonical)
	rec := &Record{Seed: seed}
	for _, v := range variants {
		next, applied := v(cur, rng)
		if applied == nil {
			continue // precondition not met: silent skip
		}
		cur = next
		rec.Applied = append(rec.Applied, *applied)
	}
	return cur, rec, nil
}

// variant transforms a structure, returning the new structure and a record
// of what it did, or a nil record when its precondition is not met.
type variant func(root any, rng *rand.Rand) (any, *Applied)

func (n Named) selectVariants(e *Engine) ([]variant, *rand.Rand, int64, error) {
	sec := n.Section
	if sec == "" && len(e.schema.Sections) > 0 {
		sec = e.schema.Sections[0].Name
	}
	spec, err := e.schema.Describe(sec)
	if err != nil {
		return nil, nil, 0, err
	}
	v, err := e.buildVariant(n.Kind, sec, spec, n.Params)
	if err != nil {
		return nil, nil, 0, err
	}
	// Named mode still needs a source for variants that sample (reorder);
	// a fixed seed keeps it deterministic.
	return []variant{v}, rand.New(rand.NewSource(1)), 0, nil
}

func (r Randomized) selectVariants(e *Engine) ([]variant, *rand.Rand, int64, error) {
	if len(e.schema.Sections) == 0 {
		return nil, nil, 0, &schema.Error{Kind: schema.KindMalformed, Detail: "schema has no sections"}
	}
	rng := rand.New(rand.NewSource(r.Seed))
	sec := e.schema.Sections[0]
	spec := sec.Field

	useRename := rng.Intn(2) == 1
	useWrap := rng.Intn(2) == 1
	useExtra := rng.Intn(2) == 1
	useCoerce := len(e.schema.Drift.Coercions) > 0 && rng.Intn(4) == 0
	useReorder := rng.Intn(4) == 0
	if !useRename && !useWrap && !useExtra && !useCoerce && !useReorder {
		useWrap = true // always drift at least once
	}

	order := r.Order
	if order == "" || order == OrderRandom {
		if rng.Intn(2) == 0 {
			order = OrderRenameThenWrap
		} else {
			order = OrderWrapThenRename
		}
	}

	var out []variant
	add := func(k Kind) {
		v, err := e.buildVariant(k, sec.Name, spec, nil)
		if err == nil {
			out = append(out, v)
		}
	}
	switch {
	case useRename && useWrap && order == OrderWrapThenRename:
		add(KindWrap)
		add(KindRename)
	default:
		if useRename {
			add(KindRename)
		}
		if useWrap {
			add(KindWrap)
		}
	}
	if useCoerce {
		add(KindCoerce)
	}
	if useReorder {
		add(KindReorder)
	}
	if useExtra {
		add(KindExtra)
	}
	return out, rng, r.Seed, nil
}
