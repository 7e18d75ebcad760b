package drift

import (
	"fmt"
	"math/rand"
	"sort"

	"driftwood/internal/schema"
	"driftwood/internal/tree"
)

func (e *Engine) buildVariant(k Kind, section string, spec schema.FieldSpec, params map[string]any) (variant, error) {
	vocab := e.schema.Drift
	switch k {
	case KindRename:
		return e.renameVariant(section, spec, params), nil
	case KindWrap:
		return e.wrapVariant(section, spec, params), nil
	case KindFlatten:
		return e.flattenVariant(section, spec), nil
	case KindReorder:
		return e.reorderVariant(section, spec), nil
	case KindCoerce:
		return e.coerceVariant(section, spec), nil
	case KindExtra:
		return e.extraVariant(section, vocab.ExtraKeys, params), nil
	default:
		return nil, fmt.Errorf("drift: unknown variant kind %q", k)
	}
}

// locate finds the section container: the canonical key first, then any
// rename spelling the vocabulary knows. Later variants in a composite must
// find the container even after an earlier rename moved it.
func (e *Engine) locate(root any, spec schema.FieldSpec) (tree.Path, bool) {
	if p, ok := findPath(root, spec.Key, nil); ok {
		return p, true
	}
	for _, alt := range e.schema.Drift.Renames {
		if p, ok := findPath(root, alt, nil); ok {
			return p, true
		}
	}
	return nil, false
}

// findPath is a deterministic depth-first search for key, shallowest match
// first, object keys visited in sorted order.
func findPath(v any, key string, prefix tree.Path) (tree.Path, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if _, ok := obj[key]; ok {
		return prefix.Child(key), true
	}
	for _, k := range sortedKeys(obj) {
		if p, ok := findPath(obj[k], key, prefix.Child(k)); ok {
			return p, true
		}
	}
	return nil, false
}

func (e *Engine) renameVariant(section string, spec schema.FieldSpec, params map[string]any) variant {
	return func(root any, rng *rand.Rand) (any, *Applied) {
		path, ok := findPath(root, spec.Key, nil)
		if !ok {
			return root, nil
		}
		parentPath := path[:len(path)-1]
		parent, _ := tree.Get(root, parentPath)
		pobj, ok := parent.(map[string]any)
		if !ok {
			return root, nil
		}

		to := stringParam(params, "to")
		if to == "" {
			candidates := absentKeys(e.schema.Drift.Renames, pobj)
			if len(candidates) == 0 {
				return root, nil
			}
			to = candidates[rng.Intn(len(candidates))]
		} else if _, exists := pobj[to]; exists {
			return root, nil
		}

		val, _ := tree.Get(root, path)
		next, err := tree.Delete(root, path)
		if err != nil {
			return root, nil
		}
		next, err = tree.Set(next, parentPath.Child(to), val)
		if err != nil {
			return root, nil
		}
		return next, &Applied{
			Kind:    KindRename,
			Section: section,
			Path:    path,
			Params:  map[string]any{"from": spec.Key, "to": to},
		}
	}
}

func (e *Engine) wrapVariant(section string, spec schema.FieldSpec, params map[string]any) variant {
	return func(root any, rng *rand.Rand) (any, *Applied) {
		path, ok := e.locate(root, spec)
		if !ok {
			return root, nil
		}
		wrapper := stringParam(params, "wrapper")
		if wrapper == "" {
			if len(e.schema.Drift.Wrappers) == 0 {
				return root, nil
			}
			wrapper = e.schema.Drift.Wrappers[rng.Intn(len(e.schema.Drift.Wrappers))]
		}
		val, _ := tree.Get(root, path)
		next, err := tree.Set(root, path, map[string]any{wrapper: val})
		if err != nil {
			return root, nil
		}
		return next, &Applied{
			Kind:    KindWrap,
			Section: section,
			Path:    path,
			Params:  map[string]any{"wrapper": wrapper},
		}
	}
}

func (e *Engine) flattenVariant(section string, spec schema.FieldSpec) variant {
	return func(root any, _ *rand.Rand) (any, *Applied) {
		path, ok := e.locate(root, spec)
		if !ok {
			return root, nil
		}
		val, _ := tree.Get(root, path)
		obj, ok := val.(map[string]any)
		if !ok || len(obj) != 1 {
			return root, nil
		}
		inner := sortedKeys(obj)[0]
		next, err := tree.Set(root, path, obj[inner])
		if err != nil {
			return root, nil
		}
		return next, &Applied{
			Kind:    KindFlatten,
			Section: section,
			Path:    path,
			Params:  map[string]any{"removed": inner},
		}
	}
}

func (e *Engine) reorderVariant(section string, spec schema.FieldSpec) variant {
	return func(root any, rng *rand.Rand) (any, *Applied) {
		base, ok := e.locate(root, spec)
		if !ok {
			return root, nil
		}
		val, _ := tree.Get(root, base)
		listPath, list, ok := firstList(val, base)
		if !ok || len(list) < 2 {
			return root, nil
		}
		perm := rng.Perm(len(list))
		if identityPerm(perm) {
			// One swap guarantees an observable reorder.
			perm[0], perm[1] = perm[1], perm[0]
		}
		shuffled := make([]any, len(list))
		for i, j := range perm {
			shuffled[i] = list[j]
		}
		next, err := tree.Set(root, listPath, shuffled)
		if err != nil {
			return root, nil
		}
		return next, &Applied{
			Kind:    KindReorder,
			Section: section,
			Path:    listPath,
			Params:  map[string]any{"perm": permToAny(perm)},
		}
	}
}

func (e *Engine) coerceVariant(section string, spec schema.FieldSpec) variant {
	return func(root any, _ *rand.Rand) (any, *Applied) {
		base, ok := e.locate(root, spec)
		if !ok {
			return root, nil
		}
		val, _ := tree.Get(root, base)
		for _, leaf := range tree.Leaves(val) {
			from := tree.TypeTag(leaf.Value)
			for _, pair := range e.schema.Drift.Coercions {
				if pair.From != from {
					continue
				}
				coerced, ok := tree.Coerce(leaf.Value, pair.To)
				if !ok {
					continue
				}
				full := append(append(tree.Path{}, base...), leaf.Path...)
				next, err := tree.Set(root, full, coerced)
				if err != nil {
					continue
				}
				return next, &Applied{
					Kind:    KindCoerce,
					Section: section,
					Path:    full,
					Params:  map[string]any{"from": pair.From, "to": pair.To},
				}
			}
		}
		return root, nil
	}
}

func (e *Engine) extraVariant(section string, keys []string, params map[string]any) variant {
	return func(root any, rng *rand.Rand) (any, *Applied) {
		obj, ok := root.(map[string]any)
		if !ok {
			return root, nil
		}
		key := stringParam(params, "key")
		if key == "" {
			candidates := absentKeys(keys, obj)
			if len(candidates) == 0 {
				return root, nil
			}
			key = candidates[rng.Intn(len(candidates))]
		} else if _, exists := obj[key]; exists {
			return root, nil
		}
		noise := map[string]any{"note": "ignorable structural noise"}
		next, err := tree.Set(root, tree.Path{key}, noise)
		if err != nil {
			return root, nil
		}
		return next, &Applied{
			Kind:    KindExtra,
			Section: section,
			Path:    tree.Path{key},
			Params:  map[string]any{"key": key},
		}
	}
}

// firstList finds the shallowest list under v, key-sorted for determinism.
func firstList(v any, prefix tree.Path) (tree.Path, []any, bool) {
	switch t := v.(type) {
	case []any:
		return prefix, t, true
	case map[string]any:
		for _, k := range sortedKeys(t) {
			if p, l, ok := firstList(t[k], prefix.Child(k)); ok {
				return p, l, true
			}
		}
	}
	return nil, nil, false
}

func absentKeys(candidates []string, obj map[string]any) []string {
	var out []string
	for _, k := range candidates {
		if _, exists := obj[k]; !exists {
			out = append(out, k)
		}
	}
	return out
}

func stringParam(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	s, _ := params[key].(string)
	return s
}

func identityPerm(perm []int) bool {
	for i, v := range perm {
		if i != v {
			return false
		}
	}
	return true
}

func permToAny(perm []int) []any {
	out := make([]any, len(perm))
	for i, v := range perm {
		out[i] = v
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
