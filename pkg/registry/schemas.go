package registry

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// validateParameters checks action parameters against a JSON schema. A nil
// schema skips validation.
func validateParameters(schema map[string]any, parameters map[string]any) error {
	if schema == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(parameters)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			details = append(details, resultError.String())
		}

		return fmt.Errorf("parameters do not match schema: %s", strings.Join(details, "; "))
	}

	return nil
}

// ObjectSchema builds the common schema shape for an action's parameters:
// required string fields plus free-form extras.
func ObjectSchema(required ...string) map[string]any {
	properties := make(map[string]any, len(required))
	for _, field := range required {
		properties[field] = map[string]any{"type": "string", "minLength": 1}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
