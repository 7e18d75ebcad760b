package schema

import "testing"

func TestParse(t *testing.T) {
	data := []byte(`
name: demo
sections:
  - name: readings
    field: {key: readings, type: object, depth: 0}
ignore: [noise]
drift:
  renames: [reading, data]
  coercions:
    - {from: number, to: string}
`)
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "demo" || len(s.Sections) != 1 {
		t.Errorf("parsed schema = %+v", s)
	}
	if !s.Coercible("number", "string") {
		t.Error("coercion pair missing after parse")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := Parse([]byte("name: broken\nsections: []\n")); err == nil {
		t.Fatal("schema with no sections should be rejected")
	}
	if _, err := Parse([]byte("{unclosed")); err == nil {
		t.Fatal("invalid YAML should be rejected")
	}
}
