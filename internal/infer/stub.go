package infer

import (
	"context"

	"driftwood/internal/excerpt"
	"driftwood/internal/repair"
	"driftwood/internal/schema"
	"driftwood/internal/tree"
)

// Stub is a deterministic, offline planner. It recognizes the two most
// common drifts from the summary alone: a renamed section container and a
// single-key wrapper. Trials use it to exercise the full loop without a
// network dependency.
type Stub struct {
	schema *schema.Schema
}

// NewStub creates a stub planner for a schema.
func NewStub(s *schema.Schema) *Stub {
	return &Stub{schema: s}
}

func (p *Stub) Name() string { return "stub" }

// Propose emits at most one rename and one unwrap, rename first so the
// unwrap path can assume the canonical spelling.
func (p *Stub) Propose(_ context.Context, sum excerpt.Summary) (repair.Plan, error) {
	if len(p.schema.Sections) == 0 {
		return repair.Plan{}, nil
	}
	canon := p.schema.Sections[0].Field.Key

	var plan repair.Plan
	if !sum.HasCanonical && sum.ContainerKey != "" {
		plan = append(plan, repair.Op{
			Kind:   repair.OpRename,
			Path:   tree.Path{sum.ContainerKey},
			Target: canon,
		})
	}
	if sum.WrapperSuspect != nil {
		plan = append(plan, repair.Op{
			Kind:   repair.OpUnwrap,
			Path:   tree.Path{canon},
			Params: map[string]any{"wrapper": sum.WrapperSuspect.Key},
		})
	}
	return plan, nil
}
