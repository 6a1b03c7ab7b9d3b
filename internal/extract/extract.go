// Package extract recovers structured data from free-form generative output.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/oliveagle/jsonpath"
)

// Object locates the first brace-delimited object in text and decodes it.
// The span runs from the first '{' to the last '}', the widest possible
// match, so trailing prose containing a brace can defeat the decode. That
// lenient reading is intentional: the upstream model is not guaranteed to
// emit clean JSON. On any failure Object returns an empty mapping rather
// than an error.
func Object(text string) map[string]any {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return map[string]any{}
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &decoded); err != nil || decoded == nil {
		return map[string]any{}
	}
	return decoded
}

// Lookup evaluates a JSONPath expression against a decoded document and
// reports whether it produced a value
func Lookup(doc any, expression string) (any, bool) {
	pattern, err := jsonpath.Compile(expression)
	if err != nil {
		return nil, false
	}

	value, err := pattern.Lookup(doc)
	if err != nil {
		return nil, false
	}
	return value, true
}
