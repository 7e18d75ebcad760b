package repair

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"driftwood/internal/tree"
)

func TestParsePlanBareArray(t *testing.T) {
	data := []byte(`[
		{"op":"rename","path":["fn_map"],"target":"functions"},
		{"op":"unwrap","path":["functions"],"params":{"wrapper":"wrapper"}}
	]`)
	plan, err := ParsePlan(data)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if len(plan) != 2 || plan[0].Kind != OpRename || plan[1].Kind != OpUnwrap {
		t.Errorf("plan = %+v", plan)
	}
	if diff := cmp.Diff(tree.Path{"fn_map"}, plan[0].Path); diff != "" {
		t.Errorf("path (-want +got):\n%s", diff)
	}
}

func TestParsePlanWrappedOps(t *testing.T) {
	plan, err := ParsePlan([]byte(`{"ops":[{"op":"no-op","path":[]}]}`))
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if len(plan) != 1 || plan[0].Kind != OpNoOp {
		t.Errorf("plan = %+v", plan)
	}
}

func TestParsePlanRejectsGarbage(t *testing.T) {
	for _, bad := range []string{`not json`, `{"plans":[]}`, `42`} {
		if _, err := ParsePlan([]byte(bad)); err == nil {
			t.Errorf("ParsePlan(%q) should fail", bad)
		}
	}
}

func TestTargetPath(t *testing.T) {
	cases := []struct {
		target any
		want   tree.Path
		ok     bool
	}{
		{"functions", tree.Path{"functions"}, true},
		{[]string{"a", "b"}, tree.Path{"a", "b"}, true},
		{[]any{"a", "b"}, tree.Path{"a", "b"}, true},
		{tree.Path{"a"}, tree.Path{"a"}, true},
		{[]any{"a", float64(1)}, nil, false},
		{float64(3), nil, false},
		{nil, nil, false},
	}
	for _, tc := range cases {
		got, ok := (Op{Target: tc.target}).TargetPath()
		if ok != tc.ok {
			t.Errorf("TargetPath(%v) ok = %v, want %v", tc.target, ok, tc.ok)
			continue
		}
		if ok {
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("TargetPath(%v) (-want +got):\n%s", tc.target, diff)
			}
		}
	}
}
