package tree

import (
	"encoding/json"
	"strconv"
)

// Type tags used by schema specs, excerpts, and the verifier. Lists carry
// an element tag ("list[number]") when every element shares one tag.
const (
	TagString = "string"
	TagNumber = "number"
	TagBool   = "bool"
	TagNull   = "null"
	TagObject = "object"
	TagList   = "list"
)

// TypeTag classifies a JSON-shaped value. Numeric leaves decoded by
// encoding/json arrive as float64; json.Number is accepted too so callers
// can use a decoder with UseNumber.
func TypeTag(v any) string {
	switch t := v.(type) {
	case nil:
		return TagNull
	case string:
		return TagString
	case bool:
		return TagBool
	case float64, int, int64, json.Number:
		return TagNumber
	case map[string]any:
		return TagObject
	case []any:
		elem := ""
		for i, child := range t {
			tag := TypeTag(child)
			if i == 0 {
				elem = tag
				continue
			}
			if tag != elem {
				elem = ""
				break
			}
		}
		if elem == "" || len(t) == 0 {
			return TagList
		}
		return TagList + "[" + elem + "]"
	default:
		return TagObject
	}
}

// IsTag reports whether s is a well-formed type tag, including the
// element-typed list forms. Excerpt extraction treats tags as fixpoints so
// that re-extracting an excerpt yields the excerpt itself.
func IsTag(s string) bool {
	switch s {
	case TagString, TagNumber, TagBool, TagNull, TagObject, TagList:
		return true
	}
	if len(s) > len(TagList)+1 && s[:len(TagList)+1] == TagList+"[" && s[len(s)-1] == ']' {
		return IsTag(s[len(TagList)+1 : len(s)-1])
	}
	return false
}

// IsScalarTag reports whether tag names a leaf type rather than a
// container.
func IsScalarTag(tag string) bool {
	switch tag {
	case TagString, TagNumber, TagBool, TagNull:
		return true
	}
	return false
}

// Coerce converts a scalar to the target type tag. Returns false when the
// value cannot represent the target type; which pairs are legal at all is
// the schema's business, not this function's.
func Coerce(v any, to string) (any, bool) {
	switch to {
	case TagString:
		switch t := v.(type) {
		case string:
			return t, true
		case float64:
			return strconv.FormatFloat(t, 'g', -1, 64), true
		case bool:
			return strconv.FormatBool(t), true
		}
	case TagNumber:
		switch t := v.(type) {
		case float64:
			return t, true
		case string:
			if f, err := strconv.ParseFloat(t, 64); err == nil {
				return f, true
			}
		}
	case TagBool:
		switch t := v.(type) {
		case bool:
			return t, true
		case string:
			if b, err := strconv.ParseBool(t); err == nil {
				return b, true
			}
		}
	}
	return nil, false
}
