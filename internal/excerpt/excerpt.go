// Package excerpt derives schema-only views of structures: key names and
// nesting are preserved, every leaf value is replaced by its type tag. The
// excerpt is what leaves the engine boundary toward plan inference, so no
// payload data may survive in it.
package excerpt

import (
	"sort"

	"driftwood/internal/schema"
	"driftwood/internal/tree"
)

// Extract strips a structure to its shape. Objects and sequences keep
// their keys and lengths; scalars become their type tag string. The result
// is a deterministic function of the input's shape, and extracting an
// already-extracted shape changes nothing further at the container level.
func Extract(structure any) any {
	switch t := structure.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = Extract(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = Extract(v)
		}
		return out
	case string:
		if tree.IsTag(t) {
			return t // already an excerpt leaf
		}
		return tree.TagString
	default:
		return tree.TypeTag(t)
	}
}

// Summary is the compact heads-up view handed to the inference prompt:
// where the section container currently lives, which known rename
// spellings are present, and whether a single-key wrapper is suspected.
type Summary struct {
	TopLevelKeys     []string `json:"top_level_keys"`
	HasCanonical     bool     `json:"has_canonical"`
	RenamesPresent   []string `json:"renames_present,omitempty"`
	ExtraKeysPresent []string `json:"extra_keys_present,omitempty"`
	ContainerKey     string   `json:"container_key,omitempty"`
	ContainerType    string   `json:"container_type,omitempty"`
	WrapperSuspect   *Wrapper `json:"wrapper_suspect,omitempty"`
	Shape            any      `json:"shape"`
}

// Wrapper records the single-key-wrapper heuristic: a container holding
// exactly one object-valued key is very likely wrapped.
type Wrapper struct {
	Key       string   `json:"key"`
	InnerKeys []string `json:"inner_keys"`
}

// maxKeySample bounds key lists in the summary so prompts stay small.
const maxKeySample = 40

// Summarize inspects a structure against the first schema section (the
// canonical container) and produces a Summary including the full excerpt
// shape. Deterministic: same structure, same summary.
func Summarize(structure any, s *schema.Schema) Summary {
	sum := Summary{Shape: Extract(structure)}

	root, ok := structure.(map[string]any)
	if !ok || len(s.Sections) == 0 {
		return sum
	}
	spec := s.Sections[0].Field

	sum.TopLevelKeys = sample(sortedKeys(root), maxKeySample)
	_, sum.HasCanonical = root[spec.Key]

	for _, alt := range s.Drift.Renames {
		if _, present := root[alt]; present {
			sum.RenamesPresent = append(sum.RenamesPresent, alt)
		}
	}
	for _, k := range s.Drift.ExtraKeys {
		if _, present := root[k]; present {
			sum.ExtraKeysPresent = append(sum.ExtraKeysPresent, k)
		}
	}

	key := spec.Key
	if !sum.HasCanonical {
		key = ""
		for _, alt := range s.Drift.Renames {
			if _, present := root[alt]; present {
				key = alt
				break
			}
		}
	}
	if key == "" {
		return sum
	}
	sum.ContainerKey = key
	container := root[key]
	sum.ContainerType = tree.TypeTag(container)

	if obj, ok := container.(map[string]any); ok && len(obj) == 1 {
		inner := sortedKeys(obj)[0]
		if innerObj, ok := obj[inner].(map[string]any); ok {
			sum.WrapperSuspect = &Wrapper{
				Key:       inner,
				InnerKeys: sample(sortedKeys(innerObj), maxKeySample),
			}
		}
	}
	return sum
}

func sample(keys []string, n int) []string {
	if len(keys) > n {
		return keys[:n]
	}
	return keys
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
