// Package jsonx extracts JSON objects from free-form model output.
//
// Every generative call in this backend is expected to contain exactly one
// JSON object somewhere in its reply. The contract is deliberately loose:
// take the substring from the first '{' to the last '}' and parse that.
// Callers translate any error into their own documented safe default.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject locates the outermost JSON object in raw and unmarshals it
// into out.
func ExtractObject(raw string, out any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return fmt.Errorf("no JSON object in response: %s", snippet(raw))
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), out); err != nil {
		return fmt.Errorf("parse model JSON: %w", err)
	}
	return nil
}

// ExtractMap is ExtractObject for callers that inspect fields dynamically.
func ExtractMap(raw string) (map[string]any, error) {
	var m map[string]any
	if err := ExtractObject(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > 120 {
		return string(r[:120]) + "..."
	}
	return s
}
