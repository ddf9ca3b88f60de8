package models

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// TriggerType identifies the business event that can fire a workflow.
type TriggerType string

const (
	TriggerLeadCreated      TriggerType = "lead_created"
	TriggerLeadScored       TriggerType = "lead_scored"
	TriggerLeadConverted    TriggerType = "lead_converted"
	TriggerEmailOpened      TriggerType = "email_opened"
	TriggerEmailClicked     TriggerType = "email_clicked"
	TriggerSocialEngagement TriggerType = "social_engagement"
	TriggerWebsiteVisit     TriggerType = "website_visit"
	TriggerFormSubmitted    TriggerType = "form_submitted"
	TriggerPurchaseMade     TriggerType = "purchase_made"
	TriggerCustom           TriggerType = "custom"
)

// IsValid reports whether the trigger type belongs to the closed set.
func (t TriggerType) IsValid() bool {
	switch t {
	case TriggerLeadCreated, TriggerLeadScored, TriggerLeadConverted,
		TriggerEmailOpened, TriggerEmailClicked, TriggerSocialEngagement,
		TriggerWebsiteVisit, TriggerFormSubmitted, TriggerPurchaseMade,
		TriggerCustom:
		return true
	default:
		return false
	}
}

// ScheduleKind describes when a trigger should fire relative to its event.
type ScheduleKind string

const (
	ScheduleImmediate ScheduleKind = "immediate"
	ScheduleDelayed   ScheduleKind = "delayed"
	ScheduleScheduled ScheduleKind = "scheduled"
	ScheduleRecurring ScheduleKind = "recurring"
)

// TriggerSchedule is stored metadata consumed by an external scheduler or
// queue. The engine itself treats every trigger as immediate.
type TriggerSchedule struct {
	Kind ScheduleKind `json:"kind"`

	// DelayMinutes applies to the delayed kind.
	DelayMinutes int `json:"delay_minutes,omitempty"`

	// CronExpression applies to the scheduled and recurring kinds.
	// Standard 5-field cron format (minute hour day month weekday).
	CronExpression string `json:"cron_expression,omitempty"`
}

// Trigger pairs a business event type with the conditions that must hold on
// the event payload for a workflow to fire.
type Trigger struct {
	Type TriggerType `json:"type" validate:"required"`

	// Conditions map payload fields to expected values. Plain values are
	// matched by equality; a map value of the form
	// {"operator": "greater_than", "value": 10} selects another operator.
	Conditions map[string]any `json:"conditions,omitempty"`

	Schedule *TriggerSchedule `json:"schedule,omitempty"`
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Validate checks the trigger type and, for cron-based schedules, that the
// expression parses. Schedules are metadata only; validation here keeps bad
// expressions from reaching whatever external scheduler consumes them.
func (t *Trigger) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("unknown trigger type: %s", t.Type)
	}

	if t.Schedule == nil {
		return nil
	}

	switch t.Schedule.Kind {
	case ScheduleImmediate, ScheduleDelayed, "":
		return nil
	case ScheduleScheduled, ScheduleRecurring:
		if _, err := cronParser.Parse(t.Schedule.CronExpression); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", t.Schedule.CronExpression, err)
		}

		return nil
	default:
		return fmt.Errorf("unknown schedule kind: %s", t.Schedule.Kind)
	}
}
