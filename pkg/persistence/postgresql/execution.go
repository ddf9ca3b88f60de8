package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
)

// ExecutionRepository handles execution-related database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

const executionColumns = `
	id
  , automation_id
  , site_id
  , status
  , trigger_type
  , input
  , output
  , error
  , started_at
  , completed_at
`

func (r *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	input, output, err := encodePayloads(execution)
	if err != nil {
		return persistence.NewStoreError("Create", execution.ID, err)
	}

	query := `
		INSERT INTO executions (` + executionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.AutomationID,
		execution.SiteID,
		execution.Status,
		execution.Trigger,
		input,
		output,
		execution.Error,
		execution.StartedAt,
		execution.CompletedAt,
	)
	if err != nil {
		return persistence.NewStoreError("Create", execution.ID, err)
	}

	return nil
}

// Update writes the terminal transition. The WHERE clause only matches
// running rows, which enforces the write-exactly-twice invariant at the
// store level even under concurrent callers.
func (r *ExecutionRepository) Update(ctx context.Context, execution *models.Execution) error {
	_, output, err := encodePayloads(execution)
	if err != nil {
		return persistence.NewStoreError("Update", execution.ID, err)
	}

	query := `
		UPDATE executions
		SET status = $1, output = $2, error = $3, completed_at = $4
		WHERE id = $5 AND status = 'running'
	`

	result, err := r.db.ExecContext(ctx, query,
		execution.Status,
		output,
		execution.Error,
		execution.CompletedAt,
		execution.ID,
	)
	if err != nil {
		return persistence.NewStoreError("Update", execution.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewStoreError("Update", execution.ID, err)
	}

	if affected == 0 {
		if _, err := r.GetByID(ctx, execution.ID); err != nil {
			return err
		}

		return persistence.NewStoreError("Update", execution.ID, persistence.ErrExecutionFinished)
	}

	return nil
}

func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE id = $1`

	execution, err := r.scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoreError("GetByID", id, persistence.ErrExecutionNotFound)
		}

		return nil, persistence.NewStoreError("GetByID", id, err)
	}

	return execution, nil
}

func (r *ExecutionRepository) ListByAutomation(ctx context.Context, automationID string, limit int) ([]*models.Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE automation_id = $1 ORDER BY started_at DESC`
	args := []any{automationID}

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		execution, err := r.scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

func encodePayloads(execution *models.Execution) ([]byte, []byte, error) {
	input, err := json.Marshal(execution.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode input: %w", err)
	}

	output, err := json.Marshal(execution.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode output: %w", err)
	}

	return input, output, nil
}

func (r *ExecutionRepository) scanExecution(row rowScanner) (*models.Execution, error) {
	var (
		execution   models.Execution
		input       []byte
		output      []byte
		completedAt sql.NullTime
	)

	err := row.Scan(
		&execution.ID,
		&execution.AutomationID,
		&execution.SiteID,
		&execution.Status,
		&execution.Trigger,
		&input,
		&output,
		&execution.Error,
		&execution.StartedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(input) > 0 {
		if err := json.Unmarshal(input, &execution.Input); err != nil {
			return nil, fmt.Errorf("failed to decode input: %w", err)
		}
	}

	if len(output) > 0 {
		if err := json.Unmarshal(output, &execution.Output); err != nil {
			return nil, fmt.Errorf("failed to decode output: %w", err)
		}
	}

	if completedAt.Valid {
		execution.CompletedAt = &completedAt.Time
	}

	return &execution, nil
}
