package repair

import (
	"fmt"
	"strings"

	"driftwood/internal/schema"
	"driftwood/internal/tree"
)

// Skip records one operation that failed validation and was passed over.
// Plan execution never aborts on a bad operation; resilience to partially
// wrong inferred plans is the point.
type Skip struct {
	Index  int       `json:"index"`
	Op     OpKind    `json:"op"`
	Path   tree.Path `json:"path"`
	Reason string    `json:"reason"`
}

// Result is the outcome of executing a plan: the repaired structure and
// the ordered skip record. Identical inputs always produce identical
// Results — the executor holds no ambient state.
type Result struct {
	Repaired any    `json:"repaired"`
	Skips    []Skip `json:"skips,omitempty"`
}

// ValidationError reports that a fully executed plan still left the
// structure violating its schema. It carries the complete violation list;
// whether to request a fresh plan is the orchestrator's call.
type ValidationError struct {
	Violations []schema.Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("repair: structure still violates schema after plan: %s",
		strings.Join(parts, "; "))
}

// Execute applies plan to mutated in order. Each operation is validated
// against the current intermediate structure, not the original — later
// operations may depend on the structural effects of earlier ones. The
// input structure is never modified. When the final structure fails schema
// validation, the Result is still returned alongside a *ValidationError.
func Execute(mutated any, plan Plan, s *schema.Schema) (*Result, error) {
	cur := tree.Clone(mutated)
	res := &Result{}

	for i, op := range plan {
		next, reason := applyOp(cur, op, s)
		if reason != "" {
			res.Skips = append(res.Skips, Skip{Index: i, Op: op.Kind, Path: op.Path, Reason: reason})
			continue
		}
		cur = next
	}

	res.Repaired = cur
	if violations := s.Validate(cur); len(violations) > 0 {
		return res, &ValidationError{Violations: violations}
	}
	return res, nil
}

// applyOp validates and applies one operation. A non-empty reason means
// the operation was skipped and cur is unchanged.
func applyOp(cur any, op Op, s *schema.Schema) (any, string) {
	switch op.Kind {
	case OpNoOp:
		return cur, ""
	case OpRename:
		return applyRename(cur, op)
	case OpMove:
		return applyMove(cur, op)
	case OpUnwrap:
		return applyUnwrap(cur, op)
	case OpReorder:
		return applyReorder(cur, op)
	case OpCoerce:
		return applyCoerce(cur, op, s)
	default:
		return cur, fmt.Sprintf("unknown op %q", op.Kind)
	}
}

func applyRename(cur any, op Op) (any, string) {
	if len(op.Path) == 0 {
		return cur, "rename: empty path"
	}
	val, ok := tree.Get(cur, op.Path)
	if !ok {
		return cur, fmt.Sprintf("rename: path %s not found", op.Path)
	}
	to, ok := op.TargetString()
	if !ok || to == "" {
		return cur, "rename: target must be a key name"
	}
	parent := op.Path[:len(op.Path)-1]
	dest := parent.Child(to)
	if _, exists := tree.Get(cur, dest); exists {
		return cur, fmt.Sprintf("rename: destination %s already exists", dest)
	}
	next, err := tree.Delete(cur, op.Path)
	if err != nil {
		return cur, fmt.Sprintf("rename: %v", err)
	}
	next, err = tree.Set(next, dest, val)
	if err != nil {
		return cur, fmt.Sprintf("rename: %v", err)
	}
	return next, ""
}

func applyMove(cur any, op Op) (any, string) {
	if len(op.Path) == 0 {
		return cur, "move: empty path"
	}
	val, ok := tree.Get(cur, op.Path)
	if !ok {
		return cur, fmt.Sprintf("move: path %s not found", op.Path)
	}
	dest, ok := op.TargetPath()
	if !ok || len(dest) == 0 {
		return cur, "move: target must be a key path"
	}
	if _, exists := tree.Get(cur, dest); exists {
		return cur, fmt.Sprintf("move: destination %s already exists", dest)
	}
	next, err := tree.Delete(cur, op.Path)
	if err != nil {
		return cur, fmt.Sprintf("move: %v", err)
	}
	next, err = tree.Put(next, dest, val)
	if err != nil {
		return cur, fmt.Sprintf("move: %v", err)
	}
	return next, ""
}

func applyUnwrap(cur any, op Op) (any, string) {
	container, ok := tree.Get(cur, op.Path)
	if !ok {
		return cur, fmt.Sprintf("unwrap: path %s not found", op.Path)
	}
	obj, ok := container.(map[string]any)
	if !ok {
		return cur, fmt.Sprintf("unwrap: %s is not an object", op.Path)
	}
	wrapper, _ := op.Params["wrapper"].(string)
	if wrapper == "" {
		// Single-key containers unwrap without naming the wrapper.
		if len(obj) != 1 {
			return cur, fmt.Sprintf("unwrap: %s has %d keys and no wrapper named", op.Path, len(obj))
		}
		for k := range obj {
			wrapper = k
		}
	}
	inner, ok := obj[wrapper]
	if !ok {
		return cur, fmt.Sprintf("unwrap: wrapper %q not under %s", wrapper, op.Path)
	}
	next, err := tree.Set(cur, op.Path, inner)
	if err != nil {
		return cur, fmt.Sprintf("unwrap: %v", err)
	}
	return next, ""
}

func applyReorder(cur any, op Op) (any, string) {
	val, ok := tree.Get(cur, op.Path)
	if !ok {
		return cur, fmt.Sprintf("reorder: path %s not found", op.Path)
	}
	list, ok := val.([]any)
	if !ok {
		return cur, fmt.Sprintf("reorder: %s is not a sequence", op.Path)
	}
	perm, ok := intSlice(op.Params["perm"])
	if !ok {
		return cur, "reorder: params.perm must be a permutation"
	}
	if !validPerm(perm, len(list)) {
		return cur, fmt.Sprintf("reorder: perm is not a permutation of %d elements", len(list))
	}
	out := make([]any, len(list))
	for i, j := range perm {
		out[i] = list[j]
	}
	next, err := tree.Set(cur, op.Path, out)
	if err != nil {
		return cur, fmt.Sprintf("reorder: %v", err)
	}
	return next, ""
}

func applyCoerce(cur any, op Op, s *schema.Schema) (any, string) {
	val, ok := tree.Get(cur, op.Path)
	if !ok {
		return cur, fmt.Sprintf("coerce-type: path %s not found", op.Path)
	}
	target, ok := op.TargetString()
	if !ok || target == "" {
		return cur, "coerce-type: target must be a type tag"
	}
	from := tree.TypeTag(val)
	if !s.Coercible(from, target) && !s.Coercible(target, from) {
		return cur, fmt.Sprintf("coerce-type: %s -> %s is not a registered coercible pair", from, target)
	}
	coerced, ok := tree.Coerce(val, target)
	if !ok {
		return cur, fmt.Sprintf("coerce-type: value at %s cannot become %s", op.Path, target)
	}
	next, err := tree.Set(cur, op.Path, coerced)
	if err != nil {
		return cur, fmt.Sprintf("coerce-type: %v", err)
	}
	return next, ""
}

func intSlice(v any) ([]int, bool) {
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

func validPerm(perm []int, n int) bool {
	if len(perm) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range perm {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
