package file

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
)

func newWorkflow(id, siteID string, status models.WorkflowStatus, isActive bool) *models.Workflow {
	return &models.Workflow{
		ID:        id,
		Name:      "Welcome Series",
		Type:      models.WorkflowTypeEmailSequence,
		Status:    status,
		IsActive:  isActive,
		SiteID:    siteID,
		Triggers:  []models.Trigger{{Type: models.TriggerLeadCreated}},
		Actions:   []models.Action{{Type: models.ActionSendEmail, Parameters: map[string]any{"template": "welcome-1"}}},
		CreatedAt: time.Now().UTC(),
	}
}

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	p := NewPersistence(t.TempDir())

	workflow := newWorkflow("wf-1", "site-1", models.WorkflowStatusDraft, false)
	require.NoError(t, p.WorkflowRepository().Save(t.Context(), workflow))

	fetched, err := p.WorkflowRepository().GetByID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Welcome Series", fetched.Name)
	assert.Equal(t, models.WorkflowStatusDraft, fetched.Status)
	assert.Len(t, fetched.Triggers, 1)
}

func TestWorkflowRepository_GetByID_NotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowRepository().GetByID(t.Context(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_List_Filters(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.WorkflowRepository()

	require.NoError(t, repo.Save(t.Context(), newWorkflow("wf-1", "site-1", models.WorkflowStatusActive, true)))
	require.NoError(t, repo.Save(t.Context(), newWorkflow("wf-2", "site-1", models.WorkflowStatusDraft, true)))
	require.NoError(t, repo.Save(t.Context(), newWorkflow("wf-3", "site-2", models.WorkflowStatusActive, true)))
	require.NoError(t, repo.Save(t.Context(), newWorkflow("wf-4", "site-1", models.WorkflowStatusActive, false)))

	all, err := repo.List(t.Context(), persistence.ListWorkflowsOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	site1, err := repo.List(t.Context(), persistence.ListWorkflowsOptions{SiteID: "site-1"})
	require.NoError(t, err)
	assert.Len(t, site1, 3)

	draft := models.WorkflowStatusDraft
	drafts, err := repo.List(t.Context(), persistence.ListWorkflowsOptions{SiteID: "site-1", Status: &draft})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "wf-2", drafts[0].ID)

	executable, err := repo.List(t.Context(), persistence.ListWorkflowsOptions{SiteID: "site-1", OnlyExecutable: true})
	require.NoError(t, err)
	require.Len(t, executable, 1)
	assert.Equal(t, "wf-1", executable[0].ID)
}

func TestWorkflowRepository_Delete_IsSoft(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.WorkflowRepository()

	require.NoError(t, repo.Save(t.Context(), newWorkflow("wf-1", "site-1", models.WorkflowStatusActive, true)))
	require.NoError(t, repo.Delete(t.Context(), "wf-1"))

	// The record survives with deleted_at set but drops out of listings.
	fetched, err := repo.GetByID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.NotNil(t, fetched.DeletedAt)

	listed, err := repo.List(t.Context(), persistence.ListWorkflowsOptions{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestExecutionRepository_CreateAndGet(t *testing.T) {
	p := NewPersistence(t.TempDir())

	execution := &models.Execution{
		ID:           "exec-1",
		AutomationID: "wf-1",
		SiteID:       "site-1",
		Status:       models.ExecutionStatusRunning,
		Trigger:      models.TriggerLeadCreated,
		StartedAt:    time.Now().UTC(),
	}
	require.NoError(t, p.ExecutionRepository().Create(t.Context(), execution))

	fetched, err := p.ExecutionRepository().GetByID(t.Context(), "exec-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, fetched.Status)
}

func TestExecutionRepository_Update_RejectsFinished(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.ExecutionRepository()

	now := time.Now().UTC()
	execution := &models.Execution{
		ID: "exec-1", AutomationID: "wf-1", Status: models.ExecutionStatusRunning, StartedAt: now,
	}
	require.NoError(t, repo.Create(t.Context(), execution))

	execution.Status = models.ExecutionStatusCompleted
	execution.CompletedAt = &now
	require.NoError(t, repo.Update(t.Context(), execution))

	execution.Status = models.ExecutionStatusFailed
	err := repo.Update(t.Context(), execution)
	assert.True(t, persistence.IsExecutionFinished(err))
}

func TestExecutionRepository_ListByAutomation(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.ExecutionRepository()

	base := time.Now().UTC()
	for i, id := range []string{"exec-1", "exec-2", "exec-3"} {
		require.NoError(t, repo.Create(t.Context(), &models.Execution{
			ID:           id,
			AutomationID: "wf-1",
			Status:       models.ExecutionStatusRunning,
			StartedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	require.NoError(t, repo.Create(t.Context(), &models.Execution{
		ID: "other", AutomationID: "wf-2", Status: models.ExecutionStatusRunning, StartedAt: base,
	}))

	executions, err := repo.ListByAutomation(t.Context(), "wf-1", 2)
	require.NoError(t, err)
	require.Len(t, executions, 2)

	// Most recent first.
	assert.Equal(t, "exec-3", executions[0].ID)
	assert.Equal(t, "exec-2", executions[1].ID)
}

func TestPersistence_HealthCheck(t *testing.T) {
	p := NewPersistence(t.TempDir())
	assert.NoError(t, p.HealthCheck(t.Context()))

	missing := NewPersistence("/nonexistent/leadflow")
	assert.Error(t, missing.HealthCheck(t.Context()))
}
