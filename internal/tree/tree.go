// Package tree provides pure helpers over JSON-shaped value trees:
// map[string]any objects, []any sequences, and scalar leaves.
//
// Every function treats its input as immutable. Operations that change a
// tree return a fresh copy; callers never observe aliasing between an
// input and an output.
package tree

import (
	"fmt"
	"sort"
	"strings"
)

// Path addresses a value inside a tree as a sequence of object keys
// from the root. Sequence indices are not addressable; drift and repair
// operate on mapping structure only.
type Path []string

// String renders the path in dotted form for error messages and reports.
// The root is rendered as "$".
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	return "$." + strings.Join(p, ".")
}

// Child returns a new path extended by key. The receiver is not modified.
func (p Path) Child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

// Clone deep-copies a value tree. Maps and slices are rebuilt; scalars are
// shared (they are immutable in Go's JSON model).
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = Clone(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = Clone(child)
		}
		return out
	default:
		return v
	}
}

// Get resolves path against root. The second return is false when any
// segment is missing or a non-object is traversed.
func Get(root any, path Path) (any, bool) {
	cur := root
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set returns a copy of root with the value at path replaced. Intermediate
// objects must already exist; missing segments are an error so a bad path
// cannot silently grow a tree.
func Set(root any, path Path, value any) (any, error) {
	if len(path) == 0 {
		return Clone(value), nil
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("tree: set %s: not an object", path)
	}
	out := make(map[string]any, len(obj))
	for k, child := range obj {
		out[k] = Clone(child)
	}
	if len(path) == 1 {
		out[path[0]] = Clone(value)
		return out, nil
	}
	child, ok := obj[path[0]]
	if !ok {
		return nil, fmt.Errorf("tree: set %s: missing key %q", path, path[0])
	}
	sub, err := Set(child, path[1:], value)
	if err != nil {
		return nil, err
	}
	out[path[0]] = sub
	return out, nil
}

// Put is Set with path creation: missing intermediate segments become
// empty objects. Used by repair moves that rebuild nesting drift removed.
func Put(root any, path Path, value any) (any, error) {
	if len(path) == 0 {
		return Clone(value), nil
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("tree: put %s: not an object", path)
	}
	out := make(map[string]any, len(obj))
	for k, child := range obj {
		out[k] = Clone(child)
	}
	if len(path) == 1 {
		out[path[0]] = Clone(value)
		return out, nil
	}
	child, ok := obj[path[0]]
	if !ok {
		child = map[string]any{}
	}
	sub, err := Put(child, path[1:], value)
	if err != nil {
		return nil, err
	}
	out[path[0]] = sub
	return out, nil
}

// Delete returns a copy of root with the key at path removed. Deleting a
// missing path is an error; callers decide whether that is a skip.
func Delete(root any, path Path) (any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("tree: delete: empty path")
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("tree: delete %s: not an object", path)
	}
	if _, ok := obj[path[0]]; !ok {
		return nil, fmt.Errorf("tree: delete %s: missing key %q", path, path[0])
	}
	out := make(map[string]any, len(obj))
	for k, child := range obj {
		out[k] = Clone(child)
	}
	if len(path) == 1 {
		delete(out, path[0])
		return out, nil
	}
	sub, err := Delete(obj[path[0]], path[1:])
	if err != nil {
		return nil, err
	}
	out[path[0]] = sub
	return out, nil
}

// Leaf is one scalar value together with the path it was found at.
type Leaf struct {
	Path  Path
	Value any
}

// Leaves collects every scalar leaf in the tree, depth-first with object
// keys visited in sorted order so the result is deterministic. Sequence
// elements extend the path with their index rendered as a key.
func Leaves(root any) []Leaf {
	var out []Leaf
	collectLeaves(root, nil, &out)
	return out
}

func collectLeaves(v any, p Path, out *[]Leaf) {
	switch t := v.(type) {
	case map[string]any:
		keys := sortedKeys(t)
		for _, k := range keys {
			collectLeaves(t[k], p.Child(k), out)
		}
	case []any:
		for i, child := range t {
			collectLeaves(child, p.Child(fmt.Sprintf("%d", i)), out)
		}
	default:
		*out = append(*out, Leaf{Path: append(Path{}, p...), Value: t})
	}
}

// LeafMultiset counts every scalar leaf value in the tree, keyed by a
// type-tagged rendering of the value. Structural relocation does not change
// the multiset, which is exactly the no-data-loss property drift promises.
func LeafMultiset(root any) map[string]int {
	out := make(map[string]int)
	for _, l := range Leaves(root) {
		out[fmt.Sprintf("%s:%v", TypeTag(l.Value), l.Value)]++
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
