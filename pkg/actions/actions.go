// Package actions holds shared helpers for the action handler packages.
// String parameters are rendered against the triggering payload before use,
// so workflow definitions can reference event fields in them.
package actions

import (
	"fmt"
	"time"

	"github.com/dukex/leadflow/pkg/template"
)

// StringParam reads a string parameter and renders it against the input
// payload. Missing parameters yield an empty string.
func StringParam(parameters map[string]any, key string, input map[string]any) (string, error) {
	raw, _ := parameters[key].(string)
	if raw == "" {
		return "", nil
	}

	rendered, err := template.RenderString(raw, input)
	if err != nil {
		return "", fmt.Errorf("parameter %q: %w", key, err)
	}

	return rendered, nil
}

// FloatParam reads a numeric parameter, accepting both float64 (JSON) and int.
func FloatParam(parameters map[string]any, key string) float64 {
	switch v := parameters[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// MapParam reads a nested object parameter.
func MapParam(parameters map[string]any, key string) map[string]any {
	if m, ok := parameters[key].(map[string]any); ok {
		return m
	}

	return map[string]any{}
}

// Timestamp is the completion timestamp recorded in every action result.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
