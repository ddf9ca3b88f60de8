package workflow

import (
	"context"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
)

// Tracker is the read side of the execution history. Only the engine writes
// executions; everything else queries them through the tracker.
type Tracker struct {
	executions persistence.ExecutionRepository
}

func NewTracker(p persistence.Persistence) *Tracker {
	return &Tracker{executions: p.ExecutionRepository()}
}

// ListExecutions returns a workflow's executions, most recent first. A
// non-positive limit returns all of them.
func (t *Tracker) ListExecutions(ctx context.Context, workflowID string, limit int) ([]*models.Execution, error) {
	return t.executions.ListByAutomation(ctx, workflowID, limit)
}

func (t *Tracker) GetExecution(ctx context.Context, id string) (*models.Execution, error) {
	return t.executions.GetByID(ctx, id)
}
