package scenario

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"driftwood/internal/tree"
)

func TestListContainsEmbedded(t *testing.T) {
	got := List()
	want := []string{"function-patch", "sensor-batch"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}
}

func TestLoadAllEmbedded(t *testing.T) {
	for _, name := range List() {
		sc, err := Load(name)
		if err != nil {
			t.Errorf("Load(%q): %v", name, err)
			continue
		}
		if sc.Name != name {
			t.Errorf("scenario %q declares name %q", name, sc.Name)
		}
		if violations := sc.Schema.Validate(sc.Canonical); len(violations) != 0 {
			t.Errorf("%q: canonical violates its own schema: %v", name, violations)
		}
	}
}

func TestLoadNormalizesNumbers(t *testing.T) {
	sc, err := Load("function-patch")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v, ok := tree.Get(sc.Canonical, tree.Path{"functions", "emojis", "co_argcount"})
	if !ok {
		t.Fatal("canonical is missing functions.emojis.co_argcount")
	}
	if _, isFloat := v.(float64); !isFloat {
		t.Errorf("YAML integer should normalize to float64, got %T", v)
	}
}

func TestLoadUnknownName(t *testing.T) {
	if _, err := Load("not-a-scenario"); err == nil {
		t.Fatal("unknown scenario should fail")
	}
}

func TestParseRejectsNonConformantCanonical(t *testing.T) {
	data := []byte(`
name: broken
schema:
  name: broken
  sections:
    - name: readings
      field: {key: readings, type: object, depth: 0}
canonical:
  something_else: {}
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("canonical violating its own schema should be rejected")
	}
}

func TestParseRejectsMissingSchema(t *testing.T) {
	if _, err := Parse([]byte("name: empty\ncanonical: {}\n")); err == nil {
		t.Fatal("scenario without schema should be rejected")
	}
}
