// Package persistence provides the storage abstraction for workflows and
// executions. Both stores are keyed by id and partitioned by site.
package persistence

import (
	"context"

	"github.com/dukex/leadflow/pkg/models"
)

type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// ListWorkflowsOptions filters workflow listings. Zero values mean no filter.
type ListWorkflowsOptions struct {
	SiteID string
	Status *models.WorkflowStatus

	// OnlyExecutable restricts to workflows that may run right now
	// (is_active, status active, not deleted).
	OnlyExecutable bool
}

type WorkflowRepository interface {
	Save(ctx context.Context, workflow *models.Workflow) error
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	List(ctx context.Context, opts ListWorkflowsOptions) ([]*models.Workflow, error)

	// Delete soft deletes by setting deleted_at.
	Delete(ctx context.Context, id string) error
}

type ExecutionRepository interface {
	// Create persists a new running execution.
	Create(ctx context.Context, execution *models.Execution) error

	// Update writes the terminal transition. Implementations reject updates
	// to executions that already reached a terminal state.
	Update(ctx context.Context, execution *models.Execution) error

	GetByID(ctx context.Context, id string) (*models.Execution, error)

	// ListByAutomation returns executions for one workflow, most recent
	// first. A non-positive limit returns all of them.
	ListByAutomation(ctx context.Context, automationID string, limit int) ([]*models.Execution, error)
}
