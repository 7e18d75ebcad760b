package verify

import (
	"testing"

	"driftwood/internal/tree"
)

func TestCompareEqual(t *testing.T) {
	a := map[string]any{
		"functions": map[string]any{"emojis": map[string]any{"co_argcount": float64(2)}},
		"tags":      []any{"a", "b"},
	}
	b := map[string]any{
		"tags":      []any{"a", "b"},
		"functions": map[string]any{"emojis": map[string]any{"co_argcount": float64(2)}},
	}
	rep := Compare(a, b)
	if !rep.Pass {
		t.Errorf("equal structures failed: %v", rep.Mismatches)
	}
}

func TestCompareKeyOrderNeverMatters(t *testing.T) {
	// Go maps are unordered, so building the same pairs twice is exactly
	// the key-order-independence contract.
	a := map[string]any{"x": float64(1), "y": float64(2), "z": float64(3)}
	b := map[string]any{"z": float64(3), "x": float64(1), "y": float64(2)}
	if rep := Compare(a, b); !rep.Pass {
		t.Errorf("key order affected the verdict: %v", rep.Mismatches)
	}
}

func TestCompareSequenceOrderMatters(t *testing.T) {
	rep := Compare(
		map[string]any{"l": []any{"a", "b"}},
		map[string]any{"l": []any{"b", "a"}},
	)
	if rep.Pass {
		t.Fatal("reordered sequence must not pass")
	}
	if len(rep.Mismatches) != 2 {
		t.Errorf("element-wise compare should report both positions, got %v", rep.Mismatches)
	}
}

func TestCompareReportsEveryMismatch(t *testing.T) {
	rep := Compare(
		map[string]any{"a": float64(1), "b": "x", "c": true},
		map[string]any{"a": float64(2), "b": "y", "c": false},
	)
	if len(rep.Mismatches) != 3 {
		t.Fatalf("exhaustive compare should not stop at the first divergence, got %v", rep.Mismatches)
	}
}

func TestCompareMissingAndExtraKeys(t *testing.T) {
	rep := Compare(
		map[string]any{"only_expected": float64(1)},
		map[string]any{"only_actual": float64(1)},
	)
	if rep.Pass || len(rep.Mismatches) == 0 {
		t.Fatalf("disjoint key sets must fail: %v", rep.Mismatches)
	}
}

func TestCompareTypeDivergence(t *testing.T) {
	rep := Compare(
		map[string]any{"v": float64(2)},
		map[string]any{"v": "2"},
	)
	if rep.Pass {
		t.Fatal("number vs string must fail")
	}
}

func TestCompareLengthMismatch(t *testing.T) {
	rep := Compare([]any{"a"}, []any{"a", "b"})
	if rep.Pass {
		t.Fatal("length mismatch must fail")
	}
}

func TestCompareSymmetricVerdict(t *testing.T) {
	a := map[string]any{"k": map[string]any{"x": float64(1)}}
	b := map[string]any{"k": map[string]any{"x": float64(1), "y": float64(2)}}
	if Compare(a, b).Pass != Compare(b, a).Pass {
		t.Error("swapping arguments changed the verdict")
	}
	if !Compare(a, a).Pass {
		t.Error("reflexive compare failed")
	}
}

func TestCompareIgnoringTopLevelNoise(t *testing.T) {
	a := map[string]any{"functions": map[string]any{}}
	b := map[string]any{
		"functions":      map[string]any{},
		"extra_struct_1": map[string]any{"note": "noise"},
	}
	if rep := Compare(a, b); rep.Pass {
		t.Fatal("noise key should fail a plain compare")
	}
	if rep := CompareIgnoring(a, b, []string{"extra_struct_1"}); !rep.Pass {
		t.Errorf("ignored noise key still failed: %v", rep.Mismatches)
	}
}

func TestCompareMismatchPaths(t *testing.T) {
	rep := Compare(
		map[string]any{"outer": map[string]any{"inner": []any{float64(1), float64(2)}}},
		map[string]any{"outer": map[string]any{"inner": []any{float64(1), float64(3)}}},
	)
	if len(rep.Mismatches) != 1 {
		t.Fatalf("mismatches = %v", rep.Mismatches)
	}
	want := tree.Path{"outer", "inner", "1"}.String()
	if got := rep.Mismatches[0].Path.String(); got != want {
		t.Errorf("mismatch path = %s, want %s", got, want)
	}
}

func TestCompareScalarNumbers(t *testing.T) {
	// Integral float64 and int leaves compare by numeric value, so YAML
	// and JSON decodings of the same document agree.
	if rep := Compare(map[string]any{"n": 2}, map[string]any{"n": float64(2)}); !rep.Pass {
		t.Errorf("2 and 2.0 should be equal: %v", rep.Mismatches)
	}
}
