package drift

import (
	"driftwood/internal/repair"
	"driftwood/internal/tree"
)

// InversePlan builds the repair plan that undoes a drift record, walking
// the applied variants in reverse. Extra-key noise has no inverse — no
// repair operation deletes keys — and is skipped; equivalence checks
// ignore declared noise keys instead.
//
// This is the oracle path: trials use it to separate executor defects
// from planner defects, and tests use it to prove every variant is
// invertible.
func InversePlan(rec *Record) repair.Plan {
	var plan repair.Plan
	for i := len(rec.Applied) - 1; i >= 0; i-- {
		if op, ok := invert(rec.Applied[i]); ok {
			plan = append(plan, op)
		}
	}
	return plan
}

func invert(a Applied) (repair.Op, bool) {
	switch a.Kind {
	case KindRename:
		from, _ := a.Params["from"].(string)
		to, _ := a.Params["to"].(string)
		parent := a.Path[:len(a.Path)-1]
		return repair.Op{
			Kind:   repair.OpRename,
			Path:   parent.Child(to),
			Target: from,
		}, true
	case KindWrap:
		wrapper, _ := a.Params["wrapper"].(string)
		return repair.Op{
			Kind:   repair.OpUnwrap,
			Path:   a.Path,
			Params: map[string]any{"wrapper": wrapper},
		}, true
	case KindFlatten:
		removed, _ := a.Params["removed"].(string)
		return repair.Op{
			Kind:   repair.OpMove,
			Path:   a.Path,
			Target: append(tree.Path{}, a.Path.Child(removed)...),
		}, true
	case KindReorder:
		perm, _ := intParams(a.Params["perm"])
		return repair.Op{
			Kind:   repair.OpReorder,
			Path:   a.Path,
			Params: map[string]any{"perm": inversePerm(perm)},
		}, true
	case KindCoerce:
		from, _ := a.Params["from"].(string)
		return repair.Op{
			Kind:   repair.OpCoerce,
			Path:   a.Path,
			Target: from,
		}, true
	default:
		return repair.Op{}, false
	}
}

// inversePerm returns q with q[perm[i]] = i: applying q after perm
// restores the original order.
func inversePerm(perm []int) []any {
	out := make([]any, len(perm))
	for i, v := range perm {
		out[v] = i
	}
	return out
}

func intParams(v any) ([]int, bool) {
	switch t := v.(type) {
	case []int:
		return t, true
	case []any:
		out := make([]int, len(t))
		for i, e := range t {
			switch n := e.(type) {
			case float64:
				out[i] = int(n)
			case int:
				out[i] = n
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}
