package schema

import (
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name: "function-patch",
		Sections: []Section{
			{Name: "functions", Field: FieldSpec{Key: "functions", Type: "object", Depth: 0}},
			{Name: "meta", Field: FieldSpec{Key: "__meta__", Type: "object", Depth: 0, Optional: true}},
			{Name: "emojis-record", Field: FieldSpec{Key: "emojis", Type: "object", Depth: 1}},
		},
		Ignore: []string{"extra_struct_1"},
		Drift: DriftVocabulary{
			Renames:   []string{"funcs", "fn_map"},
			Wrappers:  []string{"wrapper"},
			ExtraKeys: []string{"extra_struct_1"},
			Coercions: []CoercionPair{{From: "number", To: "string"}},
		},
	}
}

func conformant() map[string]any {
	return map[string]any{
		"functions": map[string]any{
			"emojis": map[string]any{"co_argcount": float64(2)},
		},
		"__meta__": map[string]any{"source": "test"},
	}
}

func TestValidateConformant(t *testing.T) {
	if got := testSchema().Validate(conformant()); len(got) != 0 {
		t.Fatalf("conformant structure reported violations: %v", got)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	s := testSchema()
	got := s.Validate(map[string]any{"__meta__": map[string]any{}})
	if len(got) == 0 {
		t.Fatal("missing required section should be a violation")
	}
	found := false
	for _, v := range got {
		if v.Kind == MissingKey && v.Section == "functions" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a missing-key violation for functions, got %v", got)
	}
}

func TestValidateOptionalAbsent(t *testing.T) {
	s := testSchema()
	structure := map[string]any{
		"functions": map[string]any{"emojis": map[string]any{}},
	}
	if got := s.Validate(structure); len(got) != 0 {
		t.Errorf("absent optional section should be fine, got %v", got)
	}
}

func TestValidateWrongDepthAfterWrap(t *testing.T) {
	s := testSchema()
	structure := map[string]any{
		"wrapper": map[string]any{
			"functions": map[string]any{"emojis": map[string]any{}},
		},
	}
	got := s.Validate(structure)
	var depths, unexpected int
	for _, v := range got {
		switch v.Kind {
		case WrongDepth:
			depths++
		case UnexpectedKey:
			unexpected++
		}
	}
	if depths == 0 {
		t.Errorf("wrapped container should trip depth checks, got %v", got)
	}
	if unexpected == 0 {
		t.Errorf("the wrapper key itself should be unexpected, got %v", got)
	}
}

func TestValidateUnexpectedVsIgnored(t *testing.T) {
	s := testSchema()
	structure := conformant()
	structure["extra_struct_1"] = map[string]any{"note": "noise"}
	if got := s.Validate(structure); len(got) != 0 {
		t.Errorf("ignored noise key should not violate, got %v", got)
	}
	structure["surprise"] = float64(1)
	got := s.Validate(structure)
	if len(got) != 1 || got[0].Kind != UnexpectedKey {
		t.Errorf("undeclared key should be exactly one unexpected-key violation, got %v", got)
	}
}

func TestValidateWrongType(t *testing.T) {
	s := testSchema()
	structure := conformant()
	structure["functions"].(map[string]any)["emojis"] = "oops"
	got := s.Validate(structure)
	found := false
	for _, v := range got {
		if v.Kind == WrongType && v.Section == "emojis-record" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected wrong-type for emojis-record, got %v", got)
	}
}

func TestValidateNonObjectRoot(t *testing.T) {
	got := testSchema().Validate([]any{"a"})
	if len(got) != 1 || got[0].Kind != WrongType {
		t.Fatalf("non-object root should be a single wrong-type violation, got %v", got)
	}
}

func TestDescribe(t *testing.T) {
	s := testSchema()
	spec, err := s.Describe("functions")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if spec.Key != "functions" || spec.Depth != 0 {
		t.Errorf("Describe returned wrong spec: %+v", spec)
	}

	_, err = s.Describe("nonsense")
	var sErr *Error
	if !errors.As(err, &sErr) || sErr.Kind != KindUnknownSection {
		t.Fatalf("unknown section should be an unknown-section error, got %v", err)
	}
}

func TestCheckRejectsMalformed(t *testing.T) {
	cases := map[string]*Schema{
		"no sections": {Name: "x"},
		"empty key": {Name: "x", Sections: []Section{
			{Name: "a", Field: FieldSpec{Type: "object"}},
		}},
		"duplicate section": {Name: "x", Sections: []Section{
			{Name: "a", Field: FieldSpec{Key: "a", Type: "object"}},
			{Name: "a", Field: FieldSpec{Key: "b", Type: "object"}},
		}},
		"negative depth": {Name: "x", Sections: []Section{
			{Name: "a", Field: FieldSpec{Key: "a", Type: "object", Depth: -1}},
		}},
	}
	for name, s := range cases {
		var sErr *Error
		if err := s.Check(); !errors.As(err, &sErr) || sErr.Kind != KindMalformed {
			t.Errorf("%s: Check() = %v, want malformed error", name, err)
		}
	}
}

func TestCoercible(t *testing.T) {
	s := testSchema()
	if !s.Coercible("number", "string") {
		t.Error("registered pair should be coercible")
	}
	if s.Coercible("string", "number") {
		t.Error("coercion registration is directional")
	}
}
