package protocol

import "context"

// Capability providers are the external systems action handlers call. Each
// call is fire-and-record: the engine keeps the returned id and interprets
// nothing else beyond success or failure.

// EmailSender delivers one templated email.
type EmailSender interface {
	SendEmail(ctx context.Context, recipient, subject, template string) (messageID string, err error)
}

// SMSSender delivers one SMS message.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) (messageID string, err error)
}

// TaskCreator opens a task in an external task system.
type TaskCreator interface {
	CreateTask(ctx context.Context, title, description, assignee string) (taskID string, err error)
}

// LeadUpdater applies field updates to a lead record.
type LeadUpdater interface {
	UpdateLead(ctx context.Context, leadID string, updates map[string]any) error
}

// SegmentManager adds and removes leads from audience segments.
type SegmentManager interface {
	AddToSegment(ctx context.Context, leadID, segmentID string) error
	RemoveFromSegment(ctx context.Context, leadID, segmentID string) error
}

// SocialPoster publishes content to a social platform.
type SocialPoster interface {
	PostSocial(ctx context.Context, platform, content string) (postID string, err error)
}

// CampaignCreator creates a marketing campaign shell.
type CampaignCreator interface {
	CreateCampaign(ctx context.Context, name, campaignType, targetAudience string, budget float64) (campaignID string, err error)
}

// WebhookCaller performs an outbound HTTP call and reports the status code.
type WebhookCaller interface {
	CallWebhook(ctx context.Context, url, method string, body map[string]any) (statusCode int, err error)
}

// Capabilities bundles every provider an action handler may need. Fields left
// nil make the corresponding action types fail at dispatch.
type Capabilities struct {
	Email    EmailSender
	SMS      SMSSender
	Tasks    TaskCreator
	Leads    LeadUpdater
	Segments SegmentManager
	Social   SocialPoster
	Campaign CampaignCreator
	Webhooks WebhookCaller
}
