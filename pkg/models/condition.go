package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// Operator is a comparison applied to one payload field.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
)

// Condition compares one payload field against an expected value.
type Condition struct {
	Field    string   `json:"field"    validate:"required"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Matches evaluates the conjunction of all conditions against the payload.
// An empty condition list always matches. Missing fields, unknown operators
// and non-coercible values fail closed: the result is false, never an error.
func Matches(conditions []Condition, payload map[string]any) bool {
	for _, condition := range conditions {
		if !condition.matches(payload) {
			return false
		}
	}

	return true
}

func (c Condition) matches(payload map[string]any) bool {
	actual, ok := payload[c.Field]
	if !ok {
		return false
	}

	switch c.Operator {
	case OperatorEquals, "":
		return coerceString(actual) == coerceString(c.Value)
	case OperatorContains:
		return strings.Contains(coerceString(actual), coerceString(c.Value))
	case OperatorGreaterThan:
		left, leftOK := coerceFloat(actual)
		right, rightOK := coerceFloat(c.Value)

		return leftOK && rightOK && left > right
	case OperatorLessThan:
		left, leftOK := coerceFloat(actual)
		right, rightOK := coerceFloat(c.Value)

		return leftOK && rightOK && left < right
	default:
		return false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}

// ConditionsFromMap converts the map form used by triggers and workflow-level
// conditions into typed conditions. A plain value means equality; a map value
// of the form {"operator": ..., "value": ...} selects another operator.
func ConditionsFromMap(raw map[string]any) []Condition {
	conditions := make([]Condition, 0, len(raw))

	for field, expected := range raw {
		condition := Condition{Field: field, Operator: OperatorEquals, Value: expected}

		if spec, ok := expected.(map[string]any); ok {
			if op, ok := spec["operator"].(string); ok {
				condition.Operator = Operator(op)
				condition.Value = spec["value"]
			}
		}

		conditions = append(conditions, condition)
	}

	return conditions
}

// Conditional evaluates a gating rule against an event payload.
type Conditional interface {
	Evaluate(payload map[string]any) (bool, error)
}

// ExpressionConditional evaluates a govaluate expression against the payload.
// Payload fields are exposed as expression parameters.
type ExpressionConditional struct {
	Expression string
}

func (e ExpressionConditional) Evaluate(payload map[string]any) (bool, error) {
	if e.Expression == "" {
		return true, nil
	}

	expression, err := govaluate.NewEvaluableExpression(e.Expression)
	if err != nil {
		return false, fmt.Errorf("invalid condition expression %q: %w", e.Expression, err)
	}

	result, err := expression.Evaluate(payload)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition expression: %w", err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition expression %q is not boolean", e.Expression)
	}

	return matched, nil
}
