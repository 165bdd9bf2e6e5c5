package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var reFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSONObject locates a JSON object inside model output that may be
// wrapped in prose or markdown fences. Fallback order: fenced block, then
// first balanced bare object, then failure.
func ExtractJSONObject(raw string) (string, error) {
	if m := reFence.FindStringSubmatch(raw); m != nil {
		if obj, ok := firstBalancedObject(m[1]); ok {
			return obj, nil
		}
	}
	if obj, ok := firstBalancedObject(raw); ok {
		return obj, nil
	}
	return "", fmt.Errorf("no JSON object in response near %q", Snippet(raw, 120))
}

// firstBalancedObject scans for the first brace-balanced object, respecting
// string literals and escapes. Candidate opening braces that never close are
// skipped so prose containing a stray '{' does not mask a later object.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	for start >= 0 {
		if end, ok := balancedEnd(s, start); ok {
			return s[start:end], true
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += 1 + next
	}
	return "", false
}

func balancedEnd(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// Snippet truncates s for error messages and log lines.
func Snippet(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
