package models

// ActionType identifies one of the closed set of side-effecting step kinds.
type ActionType string

const (
	ActionSendEmail         ActionType = "send_email"
	ActionSendSMS           ActionType = "send_sms"
	ActionCreateTask        ActionType = "create_task"
	ActionUpdateLead        ActionType = "update_lead"
	ActionAddToSegment      ActionType = "add_to_segment"
	ActionRemoveFromSegment ActionType = "remove_from_segment"
	ActionPostSocial        ActionType = "post_social"
	ActionCreateCampaign    ActionType = "create_campaign"
	ActionSendWebhook       ActionType = "send_webhook"
	ActionCustom            ActionType = "custom"
)

// IsValid reports whether the action type belongs to the closed set.
func (t ActionType) IsValid() bool {
	switch t {
	case ActionSendEmail, ActionSendSMS, ActionCreateTask, ActionUpdateLead,
		ActionAddToSegment, ActionRemoveFromSegment, ActionPostSocial,
		ActionCreateCampaign, ActionSendWebhook, ActionCustom:
		return true
	default:
		return false
	}
}

// Action is one ordered step of a workflow. Parameters are free-form here and
// validated against the per-type schema at dispatch time.
type Action struct {
	Type       ActionType     `json:"type" validate:"required"`
	Parameters map[string]any `json:"parameters,omitempty"`

	// DelayMinutes defers this single action. Informational; the engine runs
	// actions back to back and leaves deferral to external wiring.
	DelayMinutes int `json:"delay_minutes,omitempty"`

	// Conditions gate this action against the triggering payload. A
	// non-matching action is skipped, not failed.
	Conditions []Condition `json:"conditions,omitempty"`
}
