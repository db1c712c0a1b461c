package filter

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Apply applies a JMESPath expression to a JSON string and returns the
// result re-marshaled as indented JSON. Used by the CLI to narrow file
// maps and sync responses (e.g. `keys(files)` or `conflicts`).
func Apply(jsonStr string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// ApplyToValue marshals any value to JSON and applies an expression,
// returning the raw value unfiltered when the expression is empty.
func ApplyToValue(value interface{}, expression string) (string, error) {
	output, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal value: %w", err)
	}
	if expression == "" {
		return string(output), nil
	}
	return Apply(string(output), expression)
}
