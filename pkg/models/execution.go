package models

import "time"

// ExecutionStatus is the lifecycle state of one workflow run. An execution is
// created running and transitions exactly once to completed or failed.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Terminal reports whether the status is a final one.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

// Execution records one concrete run of a workflow for one triggering event.
// Output maps action type to that action's result and is partially populated
// when a later action fails. Error is set only on failed runs.
type Execution struct {
	ID           string          `json:"id"`
	AutomationID string          `json:"automation_id"`
	SiteID       string          `json:"site_id"`
	Status       ExecutionStatus `json:"status"`
	Trigger      TriggerType     `json:"trigger"`
	Input        map[string]any  `json:"input,omitempty"`
	Output       map[string]any  `json:"output,omitempty"`
	Error        string          `json:"error,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// Duration returns the wall time between start and completion, and whether
// both timestamps are present.
func (e *Execution) Duration() (time.Duration, bool) {
	if e.StartedAt.IsZero() || e.CompletedAt == nil {
		return 0, false
	}

	return e.CompletedAt.Sub(e.StartedAt), true
}
