package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/leadflow/pkg/actions/sendemail"
	"github.com/dukex/leadflow/pkg/actions/updatelead"
	"github.com/dukex/leadflow/pkg/capabilities/memory"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
	"github.com/dukex/leadflow/pkg/persistence/file"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/registry"
)

// orderedFactory records the order its actions run in, and optionally fails.
type orderedFactory struct {
	actionType models.ActionType
	failWith   error
	log        *invocationLog
}

type invocationLog struct {
	mu    sync.Mutex
	order []models.ActionType
}

func (l *invocationLog) record(actionType models.ActionType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = append(l.order, actionType)
}

func (l *invocationLog) invocations() []models.ActionType {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]models.ActionType(nil), l.order...)
}

func (f *orderedFactory) Type() models.ActionType         { return f.actionType }
func (f *orderedFactory) ParameterSchema() map[string]any { return nil }

func (f *orderedFactory) Create(map[string]any) (protocol.Action, error) {
	return &orderedAction{factory: f}, nil
}

type orderedAction struct {
	factory *orderedFactory
}

func (a *orderedAction) Execute(_ context.Context, _ map[string]any, _ *slog.Logger) (map[string]any, error) {
	a.factory.log.record(a.factory.actionType)

	if a.factory.failWith != nil {
		return nil, a.factory.failWith
	}

	return map[string]any{"done": true}, nil
}

func newTestEngine(t *testing.T) (*Engine, *memory.Provider, persistence.Persistence) {
	t.Helper()

	provider := memory.NewProvider()
	logger := slog.Default()

	reg := registry.NewRegistry(logger)
	reg.RegisterAction(sendemail.NewFactory(provider))
	reg.RegisterAction(updatelead.NewFactory(provider))

	p := file.NewPersistence(t.TempDir())

	return NewEngine(p, reg, nil, logger), provider, p
}

func welcomeWorkflow() *models.Workflow {
	return &models.Workflow{
		Name: "Welcome Series",
		Type: models.WorkflowTypeEmailSequence,
		Triggers: []models.Trigger{
			{Type: models.TriggerLeadCreated, Conditions: map[string]any{"source": "website"}},
		},
		Actions: []models.Action{
			{Type: models.ActionSendEmail, Parameters: map[string]any{"template": "welcome-1"}},
		},
		IsActive: true,
	}
}

func TestEngine_CreateWorkflow_ForcesDraft(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	workflow := welcomeWorkflow()
	workflow.Status = models.WorkflowStatusActive

	created, err := engine.CreateWorkflow(t.Context(), "site-1", workflow, "user-1")
	require.NoError(t, err)

	assert.Equal(t, models.WorkflowStatusDraft, created.Status)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "site-1", created.SiteID)
	assert.Equal(t, "user-1", created.CreatedBy)
}

func TestEngine_CreateWorkflow_RequiresTriggers(t *testing.T) {
	engine, _, p := newTestEngine(t)

	workflow := welcomeWorkflow()
	workflow.Triggers = nil

	_, err := engine.CreateWorkflow(t.Context(), "site-1", workflow, "user-1")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "at least one trigger")

	// Rejected before any persistence call.
	stored, err := p.WorkflowRepository().List(t.Context(), persistence.ListWorkflowsOptions{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestEngine_CreateWorkflow_RequiresActions(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	workflow := welcomeWorkflow()
	workflow.Actions = nil

	_, err := engine.CreateWorkflow(t.Context(), "site-1", workflow, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one action")
}

func TestEngine_CreateWorkflow_RejectsBadCron(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	workflow := welcomeWorkflow()
	workflow.Triggers[0].Schedule = &models.TriggerSchedule{
		Kind:           models.ScheduleRecurring,
		CronExpression: "not a cron",
	}

	_, err := engine.CreateWorkflow(t.Context(), "site-1", workflow, "user-1")
	assert.True(t, IsValidationError(err))
}

func TestEngine_UpdateStatus(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	created, err := engine.CreateWorkflow(t.Context(), "site-1", welcomeWorkflow(), "user-1")
	require.NoError(t, err)

	updated, err := engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusActive, updated.Status)

	// Transitions are unconditional; archived back to draft is allowed.
	_, err = engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusArchived)
	require.NoError(t, err)
	_, err = engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusDraft)
	require.NoError(t, err)

	_, err = engine.UpdateStatus(t.Context(), created.ID, "bogus")
	assert.True(t, IsValidationError(err))

	_, err = engine.UpdateStatus(t.Context(), "missing", models.WorkflowStatusActive)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestEngine_Execute_CompletesAndRecordsOutput(t *testing.T) {
	engine, provider, p := newTestEngine(t)

	created, err := engine.CreateWorkflow(t.Context(), "site-1", welcomeWorkflow(), "user-1")
	require.NoError(t, err)
	_, err = engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusActive)
	require.NoError(t, err)

	execution, err := engine.Execute(t.Context(), created.ID, models.TriggerLeadCreated, map[string]any{
		"leadId": "lead-1",
		"email":  "lead@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.NotNil(t, execution.CompletedAt)

	emailResult, ok := execution.Output["send_email"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, emailResult["sent"])
	assert.Equal(t, "lead@example.com", emailResult["recipient"])
	assert.Equal(t, "welcome-1", emailResult["template"])

	require.Len(t, provider.CallsOf("send_email"), 1)

	stored, err := p.ExecutionRepository().GetByID(t.Context(), execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, stored.Status)
}

func TestEngine_Execute_InactiveWorkflow(t *testing.T) {
	engine, _, p := newTestEngine(t)

	created, err := engine.CreateWorkflow(t.Context(), "site-1", welcomeWorkflow(), "user-1")
	require.NoError(t, err)

	// Still a draft.
	_, err = engine.Execute(t.Context(), created.ID, models.TriggerLeadCreated, nil)
	require.ErrorIs(t, err, ErrWorkflowNotActive)
	assert.Contains(t, err.Error(), "Automation workflow is not active")

	// No execution record exists for the rejected attempt.
	executions, err := p.ExecutionRepository().ListByAutomation(t.Context(), created.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestEngine_Execute_NotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.Execute(t.Context(), "missing", models.TriggerLeadCreated, nil)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestEngine_Execute_UnsupportedActionType(t *testing.T) {
	engine, _, p := newTestEngine(t)

	workflow := welcomeWorkflow()
	workflow.Actions = []models.Action{{Type: "unsupported_action"}}

	created, err := engine.CreateWorkflow(t.Context(), "site-1", workflow, "user-1")
	require.NoError(t, err)
	_, err = engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusActive)
	require.NoError(t, err)

	execution, err := engine.Execute(t.Context(), created.ID, models.TriggerLeadCreated, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported action type: unsupported_action")

	require.NotNil(t, execution)
	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	assert.Contains(t, execution.Error, "Unsupported action type: unsupported_action")

	stored, err := p.ExecutionRepository().GetByID(t.Context(), execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusFailed, stored.Status)
}

func TestEngine_Execute_ActionOrderingAndShortCircuit(t *testing.T) {
	logger := slog.Default()
	log := &invocationLog{}

	reg := registry.NewRegistry(logger)
	reg.RegisterAction(&orderedFactory{actionType: models.ActionSendEmail, log: log})
	reg.RegisterAction(&orderedFactory{actionType: models.ActionSendSMS, failWith: errors.New("gateway down"), log: log})
	reg.RegisterAction(&orderedFactory{actionType: models.ActionCreateTask, log: log})

	p := file.NewPersistence(t.TempDir())
	engine := NewEngine(p, reg, nil, logger)

	workflow := welcomeWorkflow()
	workflow.Actions = []models.Action{
		{Type: models.ActionSendEmail},
		{Type: models.ActionSendSMS},
		{Type: models.ActionCreateTask},
	}

	created, err := engine.CreateWorkflow(t.Context(), "site-1", workflow, "user-1")
	require.NoError(t, err)
	_, err = engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusActive)
	require.NoError(t, err)

	execution, err := engine.Execute(t.Context(), created.ID, models.TriggerLeadCreated, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway down")

	// A ran before B; C never ran.
	assert.Equal(t, []models.ActionType{models.ActionSendEmail, models.ActionSendSMS}, log.invocations())

	// Output captured up to the failing action only.
	require.NotNil(t, execution)
	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	assert.Contains(t, execution.Output, "send_email")
	assert.NotContains(t, execution.Output, "send_sms")
	assert.NotContains(t, execution.Output, "create_task")

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, execution.ID, execErr.ExecutionID)
}

func TestEngine_Execute_SkipsNonMatchingActions(t *testing.T) {
	engine, provider, _ := newTestEngine(t)

	workflow := welcomeWorkflow()
	workflow.Actions = []models.Action{
		{
			Type:       models.ActionSendEmail,
			Parameters: map[string]any{"template": "vip-offer"},
			Conditions: []models.Condition{
				{Field: "score", Operator: models.OperatorGreaterThan, Value: 90},
			},
		},
		{
			Type:       models.ActionUpdateLead,
			Parameters: map[string]any{"leadId": "{{ .leadId }}"},
		},
	}

	created, err := engine.CreateWorkflow(t.Context(), "site-1", workflow, "user-1")
	require.NoError(t, err)
	_, err = engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusActive)
	require.NoError(t, err)

	execution, err := engine.Execute(t.Context(), created.ID, models.TriggerLeadCreated, map[string]any{
		"leadId": "lead-1",
		"score":  40,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Equal(t, map[string]any{"skipped": true}, execution.Output["send_email"])
	assert.Empty(t, provider.CallsOf("send_email"))
	require.Len(t, provider.CallsOf("update_lead"), 1)
}

func TestEngine_UpdateWorkflow(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	created, err := engine.CreateWorkflow(t.Context(), "site-1", welcomeWorkflow(), "user-1")
	require.NoError(t, err)

	name := "Welcome Series v2"
	active := false

	updated, err := engine.UpdateWorkflow(t.Context(), created.ID, WorkflowPatch{
		Name:     &name,
		IsActive: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "Welcome Series v2", updated.Name)
	assert.False(t, updated.IsActive)

	_, err = engine.UpdateWorkflow(t.Context(), created.ID, WorkflowPatch{Triggers: []models.Trigger{}})
	assert.True(t, IsValidationError(err))
}

func TestEngine_DeleteWorkflow(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	created, err := engine.CreateWorkflow(t.Context(), "site-1", welcomeWorkflow(), "user-1")
	require.NoError(t, err)

	require.NoError(t, engine.DeleteWorkflow(t.Context(), created.ID))

	listed, err := engine.ListWorkflows(t.Context(), "site-1", nil)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestEngine_HandleEvent_FansOutToMatchingWorkflows(t *testing.T) {
	engine, provider, _ := newTestEngine(t)

	matching := welcomeWorkflow()
	created, err := engine.CreateWorkflow(t.Context(), "site-1", matching, "user-1")
	require.NoError(t, err)
	_, err = engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusActive)
	require.NoError(t, err)

	otherTrigger := welcomeWorkflow()
	otherTrigger.Triggers = []models.Trigger{{Type: models.TriggerEmailOpened}}
	other, err := engine.CreateWorkflow(t.Context(), "site-1", otherTrigger, "user-1")
	require.NoError(t, err)
	_, err = engine.UpdateStatus(t.Context(), other.ID, models.WorkflowStatusActive)
	require.NoError(t, err)

	stillDraft := welcomeWorkflow()
	_, err = engine.CreateWorkflow(t.Context(), "site-1", stillDraft, "user-1")
	require.NoError(t, err)

	executions, err := engine.HandleEvent(t.Context(), "site-1", models.TriggerLeadCreated, map[string]any{
		"source": "website",
		"email":  "lead@example.com",
	})
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, created.ID, executions[0].AutomationID)
	assert.Len(t, provider.CallsOf("send_email"), 1)
}

func TestEngine_HandleEvent_TriggerConditionsFilter(t *testing.T) {
	engine, provider, _ := newTestEngine(t)

	created, err := engine.CreateWorkflow(t.Context(), "site-1", welcomeWorkflow(), "user-1")
	require.NoError(t, err)
	_, err = engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusActive)
	require.NoError(t, err)

	// Trigger requires source=website; this event came from an import.
	executions, err := engine.HandleEvent(t.Context(), "site-1", models.TriggerLeadCreated, map[string]any{
		"source": "csv_import",
	})
	require.NoError(t, err)
	assert.Empty(t, executions)
	assert.Empty(t, provider.Calls())
}

func TestEngine_HandleEvent_ExpressionGate(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	workflow := welcomeWorkflow()
	workflow.Triggers[0].Conditions = nil
	workflow.Expression = "score >= 50"

	created, err := engine.CreateWorkflow(t.Context(), "site-1", workflow, "user-1")
	require.NoError(t, err)
	_, err = engine.UpdateStatus(t.Context(), created.ID, models.WorkflowStatusActive)
	require.NoError(t, err)

	executions, err := engine.HandleEvent(t.Context(), "site-1", models.TriggerLeadCreated, map[string]any{"score": 10})
	require.NoError(t, err)
	assert.Empty(t, executions)

	executions, err = engine.HandleEvent(t.Context(), "site-1", models.TriggerLeadCreated, map[string]any{
		"score": 80, "email": "lead@example.com",
	})
	require.NoError(t, err)
	assert.Len(t, executions, 1)
}
