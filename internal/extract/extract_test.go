package extract

import (
	"reflect"
	"testing"
)

func TestObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]any
	}{
		{
			name: "object embedded in prose",
			text: `Here is the mind map you asked for: {"nodes": [{"id": "n1"}]} Hope it helps!`,
			want: map[string]any{"nodes": []any{map[string]any{"id": "n1"}}},
		},
		{
			name: "fenced code block",
			text: "```json\n{\"mcq\": []}\n```",
			want: map[string]any{"mcq": []any{}},
		},
		{
			name: "bare object",
			text: `{"a": 1, "b": "two"}`,
			want: map[string]any{"a": float64(1), "b": "two"},
		},
		{
			name: "no braces at all",
			text: "The model declined to answer in JSON.",
			want: map[string]any{},
		},
		{
			name: "malformed json inside braces",
			text: `{"nodes": [}`,
			want: map[string]any{},
		},
		{
			name: "closing brace before opening",
			text: `} oops {`,
			want: map[string]any{},
		},
		{
			name: "empty input",
			text: "",
			want: map[string]any{},
		},
		{
			name: "widest span swallows trailing fragment",
			// the span runs to the LAST brace, so the extra object makes the
			// whole span undecodable; the lenient contract is an empty map
			text: `{"a": 1} and also {"b": 2}`,
			want: map[string]any{},
		},
		{
			name: "json array is not an object",
			text: `[{"a": 1}]`,
			want: map[string]any{"a": float64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Object(tt.text)
			if got == nil {
				t.Fatal("Object returned nil, want a map")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Object(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	doc := map[string]any{
		"nodes": []any{map[string]any{"id": "n1", "label": "Photosynthesis"}},
		"count": float64(3),
	}

	tests := []struct {
		name       string
		expression string
		wantFound  bool
	}{
		{name: "present key", expression: "$.nodes", wantFound: true},
		{name: "nested lookup", expression: "$.nodes[0].label", wantFound: true},
		{name: "missing key", expression: "$.edges", wantFound: false},
		{name: "invalid expression", expression: "$[", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, found := Lookup(doc, tt.expression)
			if found != tt.wantFound {
				t.Errorf("Lookup(%q) found = %v, want %v", tt.expression, found, tt.wantFound)
			}
		})
	}
}

func TestAsString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "whole float", value: float64(1), want: "1"},
		{name: "fractional float", value: 1.5, want: "1.5"},
		{name: "bool", value: true, want: "true"},
		{name: "nil", value: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AsString(tt.value); got != tt.want {
				t.Errorf("AsString(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestAsStringSlice(t *testing.T) {
	got := AsStringSlice([]any{"A)", "B)", float64(3), nil})
	want := []string{"A)", "B)", "3", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AsStringSlice = %v, want %v", got, want)
	}

	if got := AsStringSlice("not a sequence"); len(got) != 0 {
		t.Errorf("AsStringSlice(non-sequence) = %v, want empty", got)
	}
}
