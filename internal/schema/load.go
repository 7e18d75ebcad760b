package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a schema definition from a YAML file and checks it.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses schema YAML bytes and checks the result.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &Error{Kind: KindMalformed, Detail: err.Error()}
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return &s, nil
}
