package schema

import (
	"fmt"
	"sort"
	"strings"

	"driftwood/internal/tree"
)

// ViolationKind classifies how a structure deviates from its schema.
type ViolationKind string

const (
	MissingKey    ViolationKind = "missing-key"
	WrongType     ViolationKind = "wrong-type"
	UnexpectedKey ViolationKind = "unexpected-key"
	WrongDepth    ViolationKind = "wrong-depth"
)

// Violation names one schema mismatch, always with the offending key path
// so the root cause is locatable without re-running with instrumentation.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Section  string        `json:"section,omitempty"`
	Path     tree.Path     `json:"path"`
	Expected string        `json:"expected,omitempty"`
	Actual   string        `json:"actual,omitempty"`
}

func (v Violation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s", v.Kind, v.Path)
	if v.Section != "" {
		fmt.Fprintf(&b, " (section %s)", v.Section)
	}
	if v.Expected != "" || v.Actual != "" {
		fmt.Fprintf(&b, ": expected %s, got %s", orDash(v.Expected), orDash(v.Actual))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ErrorKind classifies schema definition failures.
type ErrorKind string

const (
	KindUnknownSection ErrorKind = "unknown-section"
	KindMalformed      ErrorKind = "malformed"
)

// Error is a fatal schema failure: asking for a section the schema does not
// declare, or loading a definition that does not hold together.
type Error struct {
	Kind    ErrorKind
	Section string
	Detail  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnknownSection:
		return fmt.Sprintf("schema: unknown section %q", e.Section)
	default:
		if e.Section != "" {
			return fmt.Sprintf("schema: malformed definition: section %q: %s", e.Section, e.Detail)
		}
		return fmt.Sprintf("schema: malformed definition: %s", e.Detail)
	}
}

func sortedMapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
