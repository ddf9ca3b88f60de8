// Package events defines the analytics events the engine emits to the
// analytics sink. The engine only writes these; nothing reads them back.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topic for analytics events.
const Topic = "leadflow.analytics"

const (
	AutomationWorkflowCreated EventType = "automation_workflow_created"
	AutomationWorkflowUpdated EventType = "automation_workflow_updated"
	AutomationWorkflowDeleted EventType = "automation_workflow_deleted"
	AutomationStatusUpdated   EventType = "automation_status_updated"
	AutomationExecuted        EventType = "automation_executed"
	AutomationExecutionFailed EventType = "automation_execution_failed"
)

// AnalyticsEvent is the fixed shape every mutating operation emits.
type AnalyticsEvent struct {
	ID       string         `json:"id"`
	Type     EventType      `json:"type"`
	Metric   string         `json:"metric"`
	Value    float64        `json:"value"`
	Date     time.Time      `json:"date"`
	SiteID   string         `json:"site_id"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewAnalyticsEvent stamps an id and the current time onto an event.
func NewAnalyticsEvent(eventType EventType, metric string, value float64, siteID string, metadata map[string]any) AnalyticsEvent {
	return AnalyticsEvent{
		ID:       uuid.New().String(),
		Type:     eventType,
		Metric:   metric,
		Value:    value,
		Date:     time.Now().UTC(),
		SiteID:   siteID,
		Metadata: metadata,
	}
}
