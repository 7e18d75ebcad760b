// Package repair executes repair plans: ordered sequences of typed edit
// operations that undo schema drift. The executor validates every
// operation against the evolving intermediate structure, skips invalid
// operations with a recorded reason, and checks the final result against
// the canonical schema.
package repair

import (
	"encoding/json"
	"fmt"

	"driftwood/internal/tree"
)

// OpKind names one repair edit.
type OpKind string

const (
	OpRename  OpKind = "rename"
	OpMove    OpKind = "move"
	OpUnwrap  OpKind = "unwrap"
	OpReorder OpKind = "reorder"
	OpCoerce  OpKind = "coerce-type"
	OpNoOp    OpKind = "no-op"
)

// Op is a single edit instruction. Path addresses the operation's target
// in the structure as it exists when the operation runs. Target carries
// the new key name (rename), the new path from root (move), or the target
// type tag (coerce-type). Params holds operation-specific extras such as
// the wrapper key for unwrap or the permutation for reorder.
type Op struct {
	Kind   OpKind         `json:"op"`
	Path   tree.Path      `json:"path"`
	Target any            `json:"target,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// Plan is the ordered operation sequence. The wire format is a bare JSON
// array of operation objects.
type Plan []Op

// ParsePlan decodes a plan from JSON. Both a bare array and an object with
// an "ops" field are accepted; inference providers occasionally wrap their
// output despite instructions.
func ParsePlan(data []byte) (Plan, error) {
	var plan Plan
	if err := json.Unmarshal(data, &plan); err == nil {
		return plan, nil
	}
	var wrapped struct {
		Ops Plan `json:"ops"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("repair: parse plan: %w", err)
	}
	if wrapped.Ops == nil {
		return nil, fmt.Errorf("repair: parse plan: neither array nor {\"ops\": [...]}")
	}
	return wrapped.Ops, nil
}

// TargetPath interprets Target as a key path. A bare string is a
// single-segment path relative to the op path's parent (rename shorthand).
func (o Op) TargetPath() (tree.Path, bool) {
	switch t := o.Target.(type) {
	case string:
		return tree.Path{t}, true
	case []string:
		return tree.Path(t), true
	case []any:
		out := make(tree.Path, 0, len(t))
		for _, seg := range t {
			s, ok := seg.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case tree.Path:
		return t, true
	default:
		return nil, false
	}
}

// TargetString interprets Target as a plain string (rename, coerce-type).
func (o Op) TargetString() (string, bool) {
	s, ok := o.Target.(string)
	return s, ok
}

func (o Op) String() string {
	return fmt.Sprintf("%s %s", o.Kind, o.Path)
}
