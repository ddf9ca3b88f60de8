// Package web provides the HTTP surface of the automation engine.
package web

import "github.com/dukex/leadflow/pkg/models"

// CreateWorkflowRequest is the request body for creating a workflow. Trigger
// and action counts are enforced by the engine so the error messages stay
// consistent across entry points.
type CreateWorkflowRequest struct {
	Name        string              `json:"name"        validate:"required,min=3"`
	Description string              `json:"description"`
	Type        models.WorkflowType `json:"type"        validate:"required"`
	Triggers    []models.Trigger    `json:"triggers"`
	Actions     []models.Action     `json:"actions"`
	Conditions  map[string]any      `json:"conditions,omitempty"`
	Expression  string              `json:"expression,omitempty"`
	IsActive    bool                `json:"is_active"`
	SiteID      string              `json:"site_id"     validate:"required"`
	CreatedBy   string              `json:"created_by"`
}

// UpdateStatusRequest is the request body for a lifecycle transition.
type UpdateStatusRequest struct {
	Status models.WorkflowStatus `json:"status" validate:"required"`
}

// ExecuteWorkflowRequest triggers one workflow run.
type ExecuteWorkflowRequest struct {
	Trigger models.TriggerType `json:"trigger" validate:"required"`
	Input   map[string]any     `json:"input"`
}

// ExecuteWorkflowResponse is returned for completed runs.
type ExecuteWorkflowResponse struct {
	ExecutionID string         `json:"executionId"`
	Status      string         `json:"status"`
	Output      map[string]any `json:"output"`
}

// EventRequest is one inbound business event fanned out to every matching
// workflow of the site.
type EventRequest struct {
	SiteID  string             `json:"site_id" validate:"required"`
	Trigger models.TriggerType `json:"trigger" validate:"required"`
	Data    map[string]any     `json:"data"`
}

// CreateTemplateRequest is the request body for adding a workflow template.
type CreateTemplateRequest struct {
	Name        string              `json:"name"        validate:"required,min=3"`
	Description string              `json:"description"`
	Type        models.WorkflowType `json:"type"`
	Triggers    []models.Trigger    `json:"triggers"`
	Actions     []models.Action     `json:"actions"`
}
