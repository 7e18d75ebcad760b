// Package verify compares two structures for structural equivalence:
// mapping key order is irrelevant, sequence order matters, and scalar
// leaves must match in both value and type tag. Comparison is exhaustive —
// every mismatch is reported with its full path, never just the first.
package verify

import (
	"fmt"
	"sort"

	"driftwood/internal/tree"
)

// Mismatch is one point of divergence. Expected and Actual are rendered
// descriptions (tagged values, key sets, lengths) rather than raw
// payloads, so reports stay readable for large structures.
type Mismatch struct {
	Path     tree.Path `json:"path"`
	Expected string    `json:"expected"`
	Actual   string    `json:"actual"`
}

// Report is the comparison outcome. Immutable once returned; produced
// fresh per call.
type Report struct {
	Pass       bool       `json:"pass"`
	Mismatches []Mismatch `json:"mismatches"`
}

// Compare walks expected and actual together and reports every
// divergence. Symmetric in pass/fail: swapping the arguments flips
// expected/actual in the entries but never the verdict.
func Compare(expected, actual any) Report {
	return CompareIgnoring(expected, actual, nil)
}

// CompareIgnoring is Compare with top-level noise keys excluded on both
// sides. Extra-struct drift leaves keys behind that no repair operation
// removes; consumers of the canonical layout skip them, and so does the
// trial verdict.
func CompareIgnoring(expected, actual any, ignoreTopLevel []string) Report {
	if len(ignoreTopLevel) > 0 {
		expected = withoutKeys(expected, ignoreTopLevel)
		actual = withoutKeys(actual, ignoreTopLevel)
	}
	var out []Mismatch
	compare(expected, actual, nil, &out)
	if out == nil {
		out = []Mismatch{}
	}
	return Report{Pass: len(out) == 0, Mismatches: out}
}

func withoutKeys(v any, keys []string) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(obj))
	for k, child := range obj {
		out[k] = child
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func compare(expected, actual any, path tree.Path, out *[]Mismatch) {
	eo, eIsObj := expected.(map[string]any)
	ao, aIsObj := actual.(map[string]any)
	if eIsObj && aIsObj {
		compareObjects(eo, ao, path, out)
		return
	}

	es, eIsSeq := expected.([]any)
	as, aIsSeq := actual.([]any)
	if eIsSeq && aIsSeq {
		compareSequences(es, as, path, out)
		return
	}

	eTag, aTag := tree.TypeTag(expected), tree.TypeTag(actual)
	if eTag != aTag {
		*out = append(*out, Mismatch{
			Path:     append(tree.Path{}, path...),
			Expected: describe(expected),
			Actual:   describe(actual),
		})
		return
	}
	if !scalarEqual(expected, actual) {
		*out = append(*out, Mismatch{
			Path:     append(tree.Path{}, path...),
			Expected: describe(expected),
			Actual:   describe(actual),
		})
	}
}

func compareObjects(expected, actual map[string]any, path tree.Path, out *[]Mismatch) {
	for _, k := range sortedKeys(expected) {
		av, ok := actual[k]
		if !ok {
			*out = append(*out, Mismatch{
				Path:     path.Child(k),
				Expected: describe(expected[k]),
				Actual:   "(missing)",
			})
			continue
		}
		compare(expected[k], av, path.Child(k), out)
	}
	for _, k := range sortedKeys(actual) {
		if _, ok := expected[k]; !ok {
			*out = append(*out, Mismatch{
				Path:     path.Child(k),
				Expected: "(absent)",
				Actual:   describe(actual[k]),
			})
		}
	}
}

func compareSequences(expected, actual []any, path tree.Path, out *[]Mismatch) {
	if len(expected) != len(actual) {
		*out = append(*out, Mismatch{
			Path:     append(tree.Path{}, path...),
			Expected: fmt.Sprintf("sequence of %d", len(expected)),
			Actual:   fmt.Sprintf("sequence of %d", len(actual)),
		})
	}
	n := len(expected)
	if len(actual) < n {
		n = len(actual)
	}
	for i := 0; i < n; i++ {
		compare(expected[i], actual[i], path.Child(fmt.Sprintf("%d", i)), out)
	}
}

// scalarEqual compares two leaves of the same type tag. Numbers compare as
// float64 regardless of the decoder that produced them.
func scalarEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, _ := toFloat(b)
		return af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func describe(v any) string {
	switch t := v.(type) {
	case map[string]any:
		return fmt.Sprintf("object with keys %v", sortedKeys(t))
	case []any:
		return fmt.Sprintf("sequence of %d", len(t))
	default:
		return fmt.Sprintf("%s(%v)", tree.TypeTag(v), v)
	}
}
