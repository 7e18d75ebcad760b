// Package scenario ships ready-made trial scenarios: a canonical
// structure, its schema, and the drift vocabulary the schema carries.
// Scenarios are embedded so the CLI works without any working-directory
// setup.
package scenario

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"driftwood/internal/schema"
)

//go:embed *.yaml
var scenarioFS embed.FS

// Scenario pairs a canonical structure with the schema it conforms to.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Schema      *schema.Schema `yaml:"schema"`
	Canonical   any            `yaml:"canonical"`
}

// Load reads a scenario by name from the embedded YAML files. The
// canonical structure is normalized to JSON value types (map[string]any,
// []any, float64) so it behaves identically to structures read from JSON
// files.
func Load(name string) (*Scenario, error) {
	data, err := scenarioFS.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("scenario %q not found (available: %s): %w",
			name, strings.Join(List(), ", "), err)
	}
	return Parse(data)
}

// Parse parses scenario YAML bytes and checks the embedded schema.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: parse: %w", err)
	}
	if s.Schema == nil {
		return nil, fmt.Errorf("scenario %q: missing schema", s.Name)
	}
	if err := s.Schema.Check(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	canonical, err := normalize(s.Canonical)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: canonical structure: %w", s.Name, err)
	}
	s.Canonical = canonical
	if violations := s.Schema.Validate(s.Canonical); len(violations) > 0 {
		return nil, fmt.Errorf("scenario %q: canonical structure violates its own schema: %s",
			s.Name, violations[0])
	}
	return &s, nil
}

// List returns the names of all embedded scenarios, sorted.
func List() []string {
	entries, _ := scenarioFS.ReadDir(".")
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// normalize round-trips a YAML-decoded value through JSON so numbers
// become float64 and every mapping is map[string]any.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
