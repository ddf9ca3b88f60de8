package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches_EmptyConditionList(t *testing.T) {
	assert.True(t, Matches(nil, map[string]any{"source": "website"}))
	assert.True(t, Matches([]Condition{}, map[string]any{}))
	assert.True(t, Matches([]Condition{}, nil))
}

func TestMatches_Equals(t *testing.T) {
	conditions := []Condition{{Field: "source", Operator: OperatorEquals, Value: "website"}}

	assert.True(t, Matches(conditions, map[string]any{"source": "website"}))
	assert.False(t, Matches(conditions, map[string]any{"source": "referral"}))
}

func TestMatches_EqualsIsDefaultOperator(t *testing.T) {
	conditions := []Condition{{Field: "plan", Value: "pro"}}

	assert.True(t, Matches(conditions, map[string]any{"plan": "pro"}))
	assert.False(t, Matches(conditions, map[string]any{"plan": "free"}))
}

func TestMatches_EqualsCoercesNumbers(t *testing.T) {
	// JSON round-trips integers as float64; equality must not care.
	conditions := []Condition{{Field: "score", Value: float64(42)}}

	assert.True(t, Matches(conditions, map[string]any{"score": 42}))
}

func TestMatches_Contains(t *testing.T) {
	conditions := []Condition{{Field: "email", Operator: OperatorContains, Value: "@example.com"}}

	assert.True(t, Matches(conditions, map[string]any{"email": "lead@example.com"}))
	assert.False(t, Matches(conditions, map[string]any{"email": "lead@other.org"}))
}

func TestMatches_GreaterThan(t *testing.T) {
	conditions := []Condition{{Field: "score", Operator: OperatorGreaterThan, Value: 50}}

	assert.True(t, Matches(conditions, map[string]any{"score": 80}))
	assert.True(t, Matches(conditions, map[string]any{"score": "80"}))
	assert.False(t, Matches(conditions, map[string]any{"score": 50}))
	assert.False(t, Matches(conditions, map[string]any{"score": 20}))
}

func TestMatches_LessThan(t *testing.T) {
	conditions := []Condition{{Field: "visits", Operator: OperatorLessThan, Value: 3.0}}

	assert.True(t, Matches(conditions, map[string]any{"visits": 1}))
	assert.False(t, Matches(conditions, map[string]any{"visits": 3}))
}

func TestMatches_MissingFieldFailsClosed(t *testing.T) {
	conditions := []Condition{{Field: "source", Value: "website"}}

	assert.False(t, Matches(conditions, map[string]any{}))
	assert.False(t, Matches(conditions, nil))
}

func TestMatches_UnknownOperatorFailsClosed(t *testing.T) {
	conditions := []Condition{{Field: "source", Operator: "matches_regex", Value: ".*"}}

	assert.False(t, Matches(conditions, map[string]any{"source": "website"}))
}

func TestMatches_NonNumericComparisonFailsClosed(t *testing.T) {
	conditions := []Condition{{Field: "score", Operator: OperatorGreaterThan, Value: 10}}

	assert.False(t, Matches(conditions, map[string]any{"score": "not a number"}))
}

func TestMatches_Conjunction(t *testing.T) {
	conditions := []Condition{
		{Field: "source", Value: "website"},
		{Field: "score", Operator: OperatorGreaterThan, Value: 10},
	}

	assert.True(t, Matches(conditions, map[string]any{"source": "website", "score": 20}))
	assert.False(t, Matches(conditions, map[string]any{"source": "website", "score": 5}))
	assert.False(t, Matches(conditions, map[string]any{"source": "referral", "score": 20}))
}

func TestMatches_IsPure(t *testing.T) {
	conditions := []Condition{{Field: "score", Operator: OperatorGreaterThan, Value: 10}}
	payload := map[string]any{"score": 20}

	first := Matches(conditions, payload)
	second := Matches(conditions, payload)

	assert.Equal(t, first, second)
	assert.Equal(t, map[string]any{"score": 20}, payload)
}

func TestConditionsFromMap(t *testing.T) {
	raw := map[string]any{
		"source": "website",
		"score":  map[string]any{"operator": "greater_than", "value": 10},
	}

	conditions := ConditionsFromMap(raw)
	require.Len(t, conditions, 2)

	assert.True(t, Matches(conditions, map[string]any{"source": "website", "score": 50}))
	assert.False(t, Matches(conditions, map[string]any{"source": "website", "score": 5}))
}

func TestExpressionConditional(t *testing.T) {
	conditional := ExpressionConditional{Expression: "score > 10 && source == 'website'"}

	matched, err := conditional.Evaluate(map[string]any{"score": 20, "source": "website"})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = conditional.Evaluate(map[string]any{"score": 5, "source": "website"})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestExpressionConditional_EmptyExpressionMatches(t *testing.T) {
	matched, err := ExpressionConditional{}.Evaluate(map[string]any{"anything": true})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestExpressionConditional_InvalidExpression(t *testing.T) {
	_, err := ExpressionConditional{Expression: "((("}.Evaluate(map[string]any{})
	assert.Error(t, err)
}

func TestExpressionConditional_NonBooleanResult(t *testing.T) {
	_, err := ExpressionConditional{Expression: "1 + 1"}.Evaluate(map[string]any{})
	assert.Error(t, err)
}
