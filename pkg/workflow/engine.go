// Package workflow implements the automation engine: workflow lifecycle,
// event fan-out, ordered action execution and the derived analytics.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/leadflow/pkg/eventbus"
	"github.com/dukex/leadflow/pkg/events"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/otelhelper"
	"github.com/dukex/leadflow/pkg/persistence"
	"github.com/dukex/leadflow/pkg/registry"
)

// Engine owns the trigger to action pipeline. It is the only component that
// creates and transitions executions.
type Engine struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	publisher   eventbus.EventPublisher
	validate    *validator.Validate
	logger      *slog.Logger
	tracer      trace.Tracer
}

func NewEngine(
	persistence persistence.Persistence,
	registry *registry.Registry,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		persistence: persistence,
		registry:    registry,
		publisher:   publisher,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger.With("module", "workflow_engine"),
		tracer:      otel.Tracer("github.com/dukex/leadflow/pkg/workflow"),
	}
}

// CreateWorkflow validates and persists a new workflow. New workflows are
// always stored as drafts regardless of the status the caller passed in.
func (e *Engine) CreateWorkflow(ctx context.Context, siteID string, workflow *models.Workflow, createdBy string) (*models.Workflow, error) {
	if len(workflow.Triggers) == 0 {
		return nil, NewValidationError("workflow must have at least one trigger")
	}

	if len(workflow.Actions) == 0 {
		return nil, NewValidationError("workflow must have at least one action")
	}

	for i := range workflow.Triggers {
		if err := workflow.Triggers[i].Validate(); err != nil {
			return nil, NewValidationError(err.Error())
		}
	}

	now := time.Now().UTC()

	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}

	workflow.SiteID = siteID
	workflow.CreatedBy = createdBy
	workflow.Status = models.WorkflowStatusDraft
	workflow.CreatedAt = now
	workflow.UpdatedAt = now
	workflow.DeletedAt = nil

	if err := e.validate.Struct(workflow); err != nil {
		return nil, NewValidationError(err.Error())
	}

	if err := e.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Workflow created",
		"workflow_id", workflow.ID, "site_id", siteID, "type", string(workflow.Type))
	e.emit(ctx, events.AutomationWorkflowCreated, "workflows_created", 1, siteID, map[string]any{
		"workflow_id": workflow.ID,
		"type":        string(workflow.Type),
	})

	return workflow, nil
}

// GetWorkflow loads one workflow by id.
func (e *Engine) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	return e.persistence.WorkflowRepository().GetByID(ctx, id)
}

// ListWorkflows returns the site's workflows, optionally filtered by status.
func (e *Engine) ListWorkflows(ctx context.Context, siteID string, status *models.WorkflowStatus) ([]*models.Workflow, error) {
	if status != nil && !status.IsValid() {
		return nil, NewValidationError("unknown workflow status: " + string(*status))
	}

	return e.persistence.WorkflowRepository().List(ctx, persistence.ListWorkflowsOptions{
		SiteID: siteID,
		Status: status,
	})
}

// WorkflowPatch carries the updatable workflow fields. Nil pointers and nil
// slices leave the stored value untouched.
type WorkflowPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Triggers    []models.Trigger `json:"triggers,omitempty"`
	Actions     []models.Action  `json:"actions,omitempty"`
	Conditions  map[string]any   `json:"conditions,omitempty"`
	Expression  *string          `json:"expression,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// UpdateWorkflow applies a patch to a stored workflow. Replacement trigger and
// action lists go through the same validation as creation.
func (e *Engine) UpdateWorkflow(ctx context.Context, id string, patch WorkflowPatch) (*models.Workflow, error) {
	workflow, err := e.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		workflow.Name = *patch.Name
	}

	if patch.Description != nil {
		workflow.Description = *patch.Description
	}

	if patch.Triggers != nil {
		if len(patch.Triggers) == 0 {
			return nil, NewValidationError("workflow must have at least one trigger")
		}

		for i := range patch.Triggers {
			if err := patch.Triggers[i].Validate(); err != nil {
				return nil, NewValidationError(err.Error())
			}
		}

		workflow.Triggers = patch.Triggers
	}

	if patch.Actions != nil {
		if len(patch.Actions) == 0 {
			return nil, NewValidationError("workflow must have at least one action")
		}

		workflow.Actions = patch.Actions
	}

	if patch.Conditions != nil {
		workflow.Conditions = patch.Conditions
	}

	if patch.Expression != nil {
		workflow.Expression = *patch.Expression
	}

	if patch.IsActive != nil {
		workflow.IsActive = *patch.IsActive
	}

	workflow.UpdatedAt = time.Now().UTC()

	if err := e.validate.Struct(workflow); err != nil {
		return nil, NewValidationError(err.Error())
	}

	if err := e.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, err
	}

	e.emit(ctx, events.AutomationWorkflowUpdated, "workflow_updates", 1, workflow.SiteID, map[string]any{
		"workflow_id": workflow.ID,
	})

	return workflow, nil
}

// DeleteWorkflow soft deletes a workflow. Its execution history stays.
func (e *Engine) DeleteWorkflow(ctx context.Context, id string) error {
	workflow, err := e.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := e.persistence.WorkflowRepository().Delete(ctx, id); err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "Workflow deleted", "workflow_id", id)
	e.emit(ctx, events.AutomationWorkflowDeleted, "workflow_deletions", 1, workflow.SiteID, map[string]any{
		"workflow_id": id,
	})

	return nil
}

// UpdateStatus transitions a workflow to the given lifecycle status. Every
// transition is allowed.
func (e *Engine) UpdateStatus(ctx context.Context, id string, status models.WorkflowStatus) (*models.Workflow, error) {
	if !status.IsValid() {
		return nil, NewValidationError("unknown workflow status: " + string(status))
	}

	workflow, err := e.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.Status = status
	workflow.UpdatedAt = time.Now().UTC()

	if err := e.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Workflow status updated",
		"workflow_id", workflow.ID, "status", string(status))
	e.emit(ctx, events.AutomationStatusUpdated, "workflow_status_updates", 1, workflow.SiteID, map[string]any{
		"workflow_id": workflow.ID,
		"status":      string(status),
	})

	return workflow, nil
}

// Execute runs one workflow against one triggering event. Actions run
// synchronously in declared order; the first failing action stops the run and
// the remaining actions never execute. The returned execution is non-nil
// whenever a record was created, including failed runs.
func (e *Engine) Execute(ctx context.Context, workflowID string, trigger models.TriggerType, input map[string]any) (*models.Execution, error) {
	workflow, err := e.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if !workflow.Executable() {
		return nil, ErrWorkflowNotActive
	}

	if input == nil {
		input = map[string]any{}
	}

	ctx, span := e.tracer.Start(ctx, "workflow.execute", trace.WithAttributes(
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.SiteIDKey, workflow.SiteID),
		attribute.String(otelhelper.TriggerTypeKey, string(trigger)),
	))
	defer span.End()

	execution := &models.Execution{
		ID:           uuid.New().String(),
		AutomationID: workflow.ID,
		SiteID:       workflow.SiteID,
		Status:       models.ExecutionStatusRunning,
		Trigger:      trigger,
		Input:        input,
		Output:       map[string]any{},
		StartedAt:    time.Now().UTC(),
	}

	if err := e.persistence.ExecutionRepository().Create(ctx, execution); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.ExecutionIDKey, execution.ID))

	for _, action := range workflow.Actions {
		result, actionErr := e.runAction(ctx, action, input)
		if actionErr != nil {
			return e.fail(ctx, execution, actionErr)
		}

		execution.Output[string(action.Type)] = result
	}

	completedAt := time.Now().UTC()
	execution.Status = models.ExecutionStatusCompleted
	execution.CompletedAt = &completedAt

	if err := e.persistence.ExecutionRepository().Update(ctx, execution); err != nil {
		return nil, err
	}

	duration, _ := execution.Duration()

	e.logger.InfoContext(ctx, "Workflow executed",
		"workflow_id", workflow.ID, "execution_id", execution.ID,
		"duration_ms", duration.Milliseconds())
	e.emit(ctx, events.AutomationExecuted, "workflow_executions", 1, workflow.SiteID, map[string]any{
		"workflow_id":  workflow.ID,
		"execution_id": execution.ID,
		"duration_ms":  duration.Milliseconds(),
	})

	return execution, nil
}

// HandleEvent fans an inbound business event out to every executable workflow
// of the site whose triggers and conditions match. Failed matches and failed
// executions never stop the remaining workflows.
func (e *Engine) HandleEvent(ctx context.Context, siteID string, trigger models.TriggerType, payload map[string]any) ([]*models.Execution, error) {
	workflows, err := e.persistence.WorkflowRepository().List(ctx, persistence.ListWorkflowsOptions{
		SiteID:         siteID,
		OnlyExecutable: true,
	})
	if err != nil {
		return nil, err
	}

	executions := make([]*models.Execution, 0, len(workflows))

	for _, workflow := range workflows {
		matched, err := matchesWorkflow(workflow, trigger, payload)
		if err != nil {
			e.logger.WarnContext(ctx, "Workflow condition evaluation failed",
				"workflow_id", workflow.ID, "error", err)

			continue
		}

		if !matched {
			continue
		}

		execution, err := e.Execute(ctx, workflow.ID, trigger, payload)
		if execution != nil {
			executions = append(executions, execution)
		}

		if err != nil {
			e.logger.WarnContext(ctx, "Matched workflow execution failed",
				"workflow_id", workflow.ID, "error", err)
		}
	}

	return executions, nil
}

// runAction gates one action on its conditions and dispatches it. Non-matching
// actions are skipped, not failed.
func (e *Engine) runAction(ctx context.Context, action models.Action, input map[string]any) (map[string]any, error) {
	if len(action.Conditions) > 0 && !models.Matches(action.Conditions, input) {
		e.logger.DebugContext(ctx, "Action skipped", "action_type", string(action.Type))

		return map[string]any{"skipped": true}, nil
	}

	handler, err := e.registry.CreateAction(action.Type, action.Parameters)
	if err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "workflow.action", trace.WithAttributes(
		attribute.String(otelhelper.ActionTypeKey, string(action.Type)),
	))
	defer span.End()

	result, err := handler.Execute(ctx, input, e.logger)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return result, nil
}

// fail writes the terminal failed transition, keeping whatever output was
// accumulated before the failing action, and propagates the action error.
func (e *Engine) fail(ctx context.Context, execution *models.Execution, actionErr error) (*models.Execution, error) {
	completedAt := time.Now().UTC()
	execution.Status = models.ExecutionStatusFailed
	execution.Error = actionErr.Error()
	execution.CompletedAt = &completedAt

	if err := e.persistence.ExecutionRepository().Update(ctx, execution); err != nil {
		e.logger.ErrorContext(ctx, "Failed to persist failed execution",
			"execution_id", execution.ID, "error", err)
	}

	e.logger.WarnContext(ctx, "Workflow execution failed",
		"workflow_id", execution.AutomationID, "execution_id", execution.ID,
		"error", actionErr)
	e.emit(ctx, events.AutomationExecutionFailed, "workflow_execution_failures", 1, execution.SiteID, map[string]any{
		"workflow_id":  execution.AutomationID,
		"execution_id": execution.ID,
		"error":        actionErr.Error(),
	})

	return execution, &ExecutionError{ExecutionID: execution.ID, Err: actionErr}
}

// emit publishes one analytics event. Publishing is best effort; a broken
// sink never fails the operation that emitted the event.
func (e *Engine) emit(ctx context.Context, eventType events.EventType, metric string, value float64, siteID string, metadata map[string]any) {
	if e.publisher == nil {
		return
	}

	event := events.NewAnalyticsEvent(eventType, metric, value, siteID, metadata)

	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish analytics event",
			"event_type", string(eventType), "error", err)
	}
}
