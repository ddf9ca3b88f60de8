package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/leadflow/pkg/models"
)

func TestTemplateCatalog_Builtins(t *testing.T) {
	catalog := NewTemplateCatalog()

	templates := catalog.List()
	require.Len(t, templates, 4)

	ids := make([]string, 0, len(templates))
	for _, template := range templates {
		ids = append(ids, template.ID)

		// Every built-in is a usable starting point.
		assert.NotEmpty(t, template.Triggers)
		assert.NotEmpty(t, template.Actions)
	}

	assert.Contains(t, ids, "tpl-welcome-series")
	assert.Contains(t, ids, "tpl-lead-scoring")
	assert.Contains(t, ids, "tpl-abandoned-cart")
	assert.Contains(t, ids, "tpl-social-engagement")
}

func TestTemplateCatalog_Create(t *testing.T) {
	catalog := NewTemplateCatalog()

	created := catalog.Create(&models.WorkflowTemplate{
		Name: "Win-back",
		Triggers: []models.Trigger{
			{Type: models.TriggerPurchaseMade},
		},
		Actions: []models.Action{
			{Type: models.ActionSendEmail, Parameters: map[string]any{"template": "win-back"}},
		},
	})

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, models.WorkflowTypeCustom, created.Type)

	fetched, ok := catalog.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Win-back", fetched.Name)

	assert.Len(t, catalog.List(), 5)
}

func TestMatchesWorkflow(t *testing.T) {
	workflow := &models.Workflow{
		Triggers: []models.Trigger{
			{Type: models.TriggerLeadCreated, Conditions: map[string]any{"source": "website"}},
		},
	}

	matched, err := matchesWorkflow(workflow, models.TriggerLeadCreated, map[string]any{"source": "website"})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = matchesWorkflow(workflow, models.TriggerLeadCreated, map[string]any{"source": "import"})
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = matchesWorkflow(workflow, models.TriggerEmailOpened, map[string]any{"source": "website"})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestMatchesWorkflow_WorkflowConditionsAndExpression(t *testing.T) {
	workflow := &models.Workflow{
		Triggers:   []models.Trigger{{Type: models.TriggerLeadCreated}},
		Conditions: map[string]any{"country": "BR"},
		Expression: "score > 50",
	}

	matched, err := matchesWorkflow(workflow, models.TriggerLeadCreated, map[string]any{
		"country": "BR", "score": 80,
	})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = matchesWorkflow(workflow, models.TriggerLeadCreated, map[string]any{
		"country": "US", "score": 80,
	})
	require.NoError(t, err)
	assert.False(t, matched)

	// Expression evaluation errors surface; callers fail closed.
	workflow.Expression = "score +"
	_, err = matchesWorkflow(workflow, models.TriggerLeadCreated, map[string]any{
		"country": "BR", "score": 80,
	})
	assert.Error(t, err)
}
