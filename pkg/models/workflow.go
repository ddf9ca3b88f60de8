// Package models defines the core domain models for marketing automation workflows.
package models

import "time"

// WorkflowStatus represents the lifecycle state of an automation workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"    // Editable, never executed
	WorkflowStatusActive   WorkflowStatus = "active"   // Executable when IsActive is also set
	WorkflowStatusPaused   WorkflowStatus = "paused"   // Temporarily not executable
	WorkflowStatusArchived WorkflowStatus = "archived" // Retired, kept for history
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s WorkflowStatus) IsValid() bool {
	switch s {
	case WorkflowStatusDraft, WorkflowStatusActive, WorkflowStatusPaused, WorkflowStatusArchived:
		return true
	default:
		return false
	}
}

// WorkflowType categorizes what a workflow is for. Informational only; the
// engine treats all types identically.
type WorkflowType string

const (
	WorkflowTypeLeadNurturing WorkflowType = "lead_nurturing"
	WorkflowTypeLeadScoring   WorkflowType = "lead_scoring"
	WorkflowTypeEmailSequence WorkflowType = "email_sequence"
	WorkflowTypeSocialMedia   WorkflowType = "social_media"
	WorkflowTypeCustom        WorkflowType = "custom"
)

// Workflow is a stored automation definition: which events fire it, which
// actions it runs, and the tenant it belongs to. A workflow only executes when
// IsActive is set and Status is active.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Type        WorkflowType   `json:"type"        validate:"required"`
	Status      WorkflowStatus `json:"status"`
	Triggers    []Trigger      `json:"triggers"    validate:"required,min=1,dive"`
	Actions     []Action       `json:"actions"     validate:"required,min=1,dive"`

	// Conditions gate the whole workflow: a map of payload field to expected
	// value, matched by equality against the triggering event.
	Conditions map[string]any `json:"conditions,omitempty"`

	// Expression is an optional govaluate expression evaluated against the
	// triggering payload. Evaluation errors fail closed.
	Expression string `json:"expression,omitempty"`

	IsActive  bool       `json:"is_active"`
	SiteID    string     `json:"site_id"    validate:"required"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Executable reports whether the workflow may run right now.
func (w *Workflow) Executable() bool {
	return w.IsActive && w.Status == WorkflowStatusActive && w.DeletedAt == nil
}

// TriggersFor returns the triggers matching the given trigger type.
func (w *Workflow) TriggersFor(triggerType TriggerType) []Trigger {
	matches := make([]Trigger, 0, len(w.Triggers))

	for _, trigger := range w.Triggers {
		if trigger.Type == triggerType {
			matches = append(matches, trigger)
		}
	}

	return matches
}
