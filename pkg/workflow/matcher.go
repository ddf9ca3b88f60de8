package workflow

import "github.com/dukex/leadflow/pkg/models"

// matchesWorkflow decides whether an inbound event fires a workflow. The
// event type must match at least one trigger whose conditions hold on the
// payload, and the workflow level conditions and expression must hold too.
// Expression evaluation errors fail closed at the caller.
func matchesWorkflow(workflow *models.Workflow, trigger models.TriggerType, payload map[string]any) (bool, error) {
	triggers := workflow.TriggersFor(trigger)
	if len(triggers) == 0 {
		return false, nil
	}

	triggerMatched := false

	for _, t := range triggers {
		if models.Matches(models.ConditionsFromMap(t.Conditions), payload) {
			triggerMatched = true

			break
		}
	}

	if !triggerMatched {
		return false, nil
	}

	if len(workflow.Conditions) > 0 && !models.Matches(models.ConditionsFromMap(workflow.Conditions), payload) {
		return false, nil
	}

	return models.ExpressionConditional{Expression: workflow.Expression}.Evaluate(payload)
}
