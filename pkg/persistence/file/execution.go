package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
)

// ExecutionRepository stores one JSON document per execution under
// <root>/executions.
type ExecutionRepository struct {
	root string
}

func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

func (er *ExecutionRepository) dir() string {
	return filepath.Join(er.root, "executions")
}

func (er *ExecutionRepository) path(id string) string {
	return filepath.Join(er.dir(), id+".json")
}

func (er *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	return er.write("Create", execution)
}

func (er *ExecutionRepository) Update(ctx context.Context, execution *models.Execution) error {
	existing, err := er.GetByID(ctx, execution.ID)
	if err != nil {
		return err
	}

	if existing.Status.Terminal() {
		return persistence.NewStoreError("Update", execution.ID, persistence.ErrExecutionFinished)
	}

	return er.write("Update", execution)
}

func (er *ExecutionRepository) write(op string, execution *models.Execution) error {
	if err := os.MkdirAll(er.dir(), 0o755); err != nil {
		return persistence.NewStoreError(op, execution.ID, err)
	}

	data, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return persistence.NewStoreError(op, execution.ID, err)
	}

	if err := os.WriteFile(er.path(execution.ID), data, 0o644); err != nil {
		return persistence.NewStoreError(op, execution.ID, err)
	}

	return nil
}

func (er *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	data, err := os.ReadFile(er.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.NewStoreError("GetByID", id, persistence.ErrExecutionNotFound)
		}

		return nil, persistence.NewStoreError("GetByID", id, err)
	}

	var execution models.Execution
	if err := json.Unmarshal(data, &execution); err != nil {
		return nil, persistence.NewStoreError("GetByID", id, err)
	}

	return &execution, nil
}

func (er *ExecutionRepository) ListByAutomation(ctx context.Context, automationID string, limit int) ([]*models.Execution, error) {
	entries, err := os.ReadDir(er.dir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*models.Execution{}, nil
		}

		return nil, fmt.Errorf("failed to list execution files: %w", err)
	}

	executions := make([]*models.Execution, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}

		execution, err := er.GetByID(ctx, name[:len(name)-5])
		if err != nil {
			return nil, err
		}

		if execution.AutomationID != automationID {
			continue
		}

		executions = append(executions, execution)
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.After(executions[j].StartedAt)
	})

	if limit > 0 && len(executions) > limit {
		executions = executions[:limit]
	}

	return executions, nil
}
