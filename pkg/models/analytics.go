package models

// AutomationAnalytics is derived on demand from a workflow's execution
// history. It is never stored.
type AutomationAnalytics struct {
	AutomationID         string `json:"automation_id"`
	TotalExecutions      int    `json:"total_executions"`
	SuccessfulExecutions int    `json:"successful_executions"`
	FailedExecutions     int    `json:"failed_executions"`
	RunningExecutions    int    `json:"running_executions"`

	// SuccessRate is a percentage, 0 when there are no executions.
	SuccessRate float64 `json:"success_rate"`

	// AverageExecutionTimeMs averages completedAt-startedAt over executions
	// that have both timestamps; 0 when none qualify.
	AverageExecutionTimeMs float64 `json:"average_execution_time_ms"`

	// PerformanceMetrics counts executions whose output contains a given
	// action type key. Coarse proxies, not ledger-accurate counts.
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
}

// PerformanceMetrics summarizes what the executions actually did, derived by
// inspecting output keys.
type PerformanceMetrics struct {
	EmailsSent       int `json:"emails_sent"`
	SMSSent          int `json:"sms_sent"`
	TasksCreated     int `json:"tasks_created"`
	LeadsUpdated     int `json:"leads_updated"`
	SegmentChanges   int `json:"segment_changes"`
	SocialPosts      int `json:"social_posts"`
	CampaignsCreated int `json:"campaigns_created"`
	WebhooksSent     int `json:"webhooks_sent"`
}

// WorkflowOverview is one entry of the monitoring fan-out: a workflow with its
// analytics and most recent executions attached.
type WorkflowOverview struct {
	Workflow         *Workflow           `json:"workflow"`
	Analytics        AutomationAnalytics `json:"analytics"`
	RecentExecutions []*Execution        `json:"recent_executions"`
}
