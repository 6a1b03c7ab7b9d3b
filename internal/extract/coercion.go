package extract

import (
	"fmt"
	"strconv"
)

// AsString converts a decoded JSON value to its string form
func AsString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AsSlice returns the value as a sequence when it is one
func AsSlice(value any) ([]any, bool) {
	s, ok := value.([]any)
	return s, ok
}

// AsStringSlice coerces every element of a sequence to a string. Non-sequence
// input yields an empty slice.
func AsStringSlice(value any) []string {
	seq, ok := AsSlice(value)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(seq))
	for _, item := range seq {
		out = append(out, AsString(item))
	}
	return out
}

// AsMap returns the value as an object when it is one
func AsMap(value any) (map[string]any, bool) {
	m, ok := value.(map[string]any)
	return m, ok
}
