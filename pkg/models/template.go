package models

import "time"

// WorkflowTemplate is a pre-built workflow shape used as a creation starting
// point. Pure data; the usual creation validation applies when a workflow is
// created from one.
type WorkflowTemplate struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"        validate:"required,min=3"`
	Description string       `json:"description"`
	Type        WorkflowType `json:"type"        validate:"required"`
	Triggers    []Trigger    `json:"triggers"`
	Actions     []Action     `json:"actions"`
	CreatedAt   time.Time    `json:"created_at"`
}
