// Package schema declares the canonical key layout for a structure and
// validates instances against it. A Schema is an explicit value constructed
// by the caller and passed to whoever needs it — there is no process-wide
// registry, so concurrent trials can hold different schema versions.
package schema

import (
	"fmt"

	"driftwood/internal/tree"
)

// FieldSpec describes one expected field: its key name, the type tag its
// value must carry, how deep below the root the key lives (0 = top level),
// and whether the field may be absent.
type FieldSpec struct {
	Key      string `json:"key" yaml:"key"`
	Type     string `json:"type" yaml:"type"`
	Depth    int    `json:"depth" yaml:"depth"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Section is a named entry of the canonical layout. Order matters: sections
// are validated and reported in declaration order.
type Section struct {
	Name  string    `json:"name" yaml:"name"`
	Field FieldSpec `json:"field" yaml:"field"`
}

// Schema is the canonical layout plus the drift vocabulary an instance of
// this schema is known to wander into. The vocabulary drives the drift
// engine and the stub planner; the validator only needs Sections and Ignore.
type Schema struct {
	Name     string    `json:"name" yaml:"name"`
	Sections []Section `json:"sections" yaml:"sections"`

	// Ignore lists top-level noise keys that validation tolerates
	// (extra-struct drift leaves these behind and consumers skip them).
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`

	Drift DriftVocabulary `json:"drift,omitempty" yaml:"drift,omitempty"`
}

// DriftVocabulary enumerates the named drift parameters a schema's
// instances have been observed to drift into: rename spellings for section
// keys, wrapper keys for nesting drift, and extra-struct noise keys.
type DriftVocabulary struct {
	Renames   []string       `json:"renames,omitempty" yaml:"renames,omitempty"`
	Wrappers  []string       `json:"wrappers,omitempty" yaml:"wrappers,omitempty"`
	ExtraKeys []string       `json:"extra_keys,omitempty" yaml:"extra_keys,omitempty"`
	Coercions []CoercionPair `json:"coercions,omitempty" yaml:"coercions,omitempty"`
}

// CoercionPair registers one legal type coercion (for coerce-type drift and
// its repair). Both fields are type tags.
type CoercionPair struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Coercible reports whether the from→to tag pair is registered.
func (s *Schema) Coercible(from, to string) bool {
	for _, c := range s.Drift.Coercions {
		if c.From == from && c.To == to {
			return true
		}
	}
	return false
}

// Describe returns the field spec for a named section. Unknown sections are
// a SchemaError with KindUnknownSection — fatal, never retried.
func (s *Schema) Describe(section string) (FieldSpec, error) {
	for _, sec := range s.Sections {
		if sec.Name == section {
			return sec.Field, nil
		}
	}
	return FieldSpec{}, &Error{Kind: KindUnknownSection, Section: section}
}

// ignored reports whether key is declared noise.
func (s *Schema) ignored(key string) bool {
	for _, k := range s.Ignore {
		if k == key {
			return true
		}
	}
	return false
}

// declared reports whether key is the expected key of any top-level section.
func (s *Schema) declared(key string) bool {
	for _, sec := range s.Sections {
		if sec.Field.Depth == 0 && sec.Field.Key == key {
			return true
		}
	}
	return false
}

// Check verifies the schema definition itself: sections must be non-empty,
// uniquely named, with non-empty keys and known type tags. A malformed
// definition is a SchemaError with KindMalformed.
func (s *Schema) Check() error {
	if len(s.Sections) == 0 {
		return &Error{Kind: KindMalformed, Detail: "schema has no sections"}
	}
	seen := make(map[string]bool, len(s.Sections))
	for _, sec := range s.Sections {
		if sec.Name == "" {
			return &Error{Kind: KindMalformed, Detail: "section with empty name"}
		}
		if seen[sec.Name] {
			return &Error{Kind: KindMalformed, Section: sec.Name, Detail: "duplicate section"}
		}
		seen[sec.Name] = true
		if sec.Field.Key == "" {
			return &Error{Kind: KindMalformed, Section: sec.Name, Detail: "field has empty key"}
		}
		if sec.Field.Depth < 0 {
			return &Error{Kind: KindMalformed, Section: sec.Name, Detail: "negative depth"}
		}
	}
	for _, c := range s.Drift.Coercions {
		if c.From == "" || c.To == "" {
			return &Error{Kind: KindMalformed, Detail: fmt.Sprintf("coercion pair %q->%q", c.From, c.To)}
		}
	}
	return nil
}

// Validate checks a structure instance against the canonical layout and
// returns every violation found. An empty slice means the instance
// conforms. Pure inspection: the structure is never modified.
func (s *Schema) Validate(structure any) []Violation {
	var out []Violation

	root, ok := structure.(map[string]any)
	if !ok {
		return []Violation{{
			Kind:     WrongType,
			Path:     tree.Path{},
			Expected: tree.TagObject,
			Actual:   tree.TypeTag(structure),
		}}
	}

	for _, sec := range s.Sections {
		out = append(out, s.validateSection(root, sec)...)
	}

	// Undeclared top-level keys are violations unless listed as noise.
	for _, key := range sortedMapKeys(root) {
		if s.declared(key) || s.ignored(key) {
			continue
		}
		out = append(out, Violation{
			Kind:    UnexpectedKey,
			Section: "",
			Path:    tree.Path{key},
			Actual:  tree.TypeTag(root[key]),
		})
	}
	return out
}

func (s *Schema) validateSection(root map[string]any, sec Section) []Violation {
	spec := sec.Field

	path, depth, found := findKey(root, spec.Key, 0, nil)
	if !found {
		if spec.Optional {
			return nil
		}
		return []Violation{{
			Kind:     MissingKey,
			Section:  sec.Name,
			Path:     tree.Path{spec.Key},
			Expected: spec.Type,
		}}
	}

	var out []Violation
	if depth != spec.Depth {
		out = append(out, Violation{
			Kind:     WrongDepth,
			Section:  sec.Name,
			Path:     path,
			Expected: fmt.Sprintf("depth %d", spec.Depth),
			Actual:   fmt.Sprintf("depth %d", depth),
		})
	}

	val, _ := tree.Get(root, path)
	if actual := tree.TypeTag(val); !tagMatches(spec.Type, actual) {
		out = append(out, Violation{
			Kind:     WrongType,
			Section:  sec.Name,
			Path:     path,
			Expected: spec.Type,
			Actual:   actual,
		})
	}
	return out
}

// findKey locates the first (shallowest, key-sorted) occurrence of key in
// the tree and returns its path and depth. Deterministic search order keeps
// validation reports stable.
func findKey(v any, key string, depth int, prefix tree.Path) (tree.Path, int, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, 0, false
	}
	if _, ok := obj[key]; ok {
		return prefix.Child(key), depth, true
	}
	for _, k := range sortedMapKeys(obj) {
		if p, d, found := findKey(obj[k], key, depth+1, prefix.Child(k)); found {
			return p, d, true
		}
	}
	return nil, 0, false
}

// tagMatches compares an expected tag against an actual one. A bare "list"
// expectation accepts element-typed list tags.
func tagMatches(expected, actual string) bool {
	if expected == actual {
		return true
	}
	if expected == tree.TagList && len(actual) > len(tree.TagList) && actual[:len(tree.TagList)+1] == tree.TagList+"[" {
		return true
	}
	return false
}
