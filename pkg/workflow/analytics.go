package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
)

// recentExecutions is how many executions the monitor fan-out attaches per
// workflow.
const recentExecutions = 5

// Aggregator derives analytics from the execution history on demand. Nothing
// here is stored.
type Aggregator struct {
	persistence persistence.Persistence
	logger      *slog.Logger
}

func NewAggregator(p persistence.Persistence, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		persistence: p,
		logger:      logger.With("module", "analytics"),
	}
}

// GetAutomationAnalytics summarizes one workflow's execution history.
func (a *Aggregator) GetAutomationAnalytics(ctx context.Context, workflowID string) (*models.AutomationAnalytics, error) {
	if _, err := a.persistence.WorkflowRepository().GetByID(ctx, workflowID); err != nil {
		return nil, err
	}

	executions, err := a.persistence.ExecutionRepository().ListByAutomation(ctx, workflowID, 0)
	if err != nil {
		return nil, err
	}

	return computeAnalytics(workflowID, executions), nil
}

// Monitor is the read-only fan-out over a site's active workflows: each one
// with its analytics and most recent executions attached.
func (a *Aggregator) Monitor(ctx context.Context, siteID string) ([]models.WorkflowOverview, error) {
	status := models.WorkflowStatusActive

	workflows, err := a.persistence.WorkflowRepository().List(ctx, persistence.ListWorkflowsOptions{
		SiteID: siteID,
		Status: &status,
	})
	if err != nil {
		return nil, err
	}

	overviews := make([]models.WorkflowOverview, 0, len(workflows))

	for _, workflow := range workflows {
		executions, err := a.persistence.ExecutionRepository().ListByAutomation(ctx, workflow.ID, 0)
		if err != nil {
			return nil, err
		}

		recent := executions
		if len(recent) > recentExecutions {
			recent = recent[:recentExecutions]
		}

		overviews = append(overviews, models.WorkflowOverview{
			Workflow:         workflow,
			Analytics:        *computeAnalytics(workflow.ID, executions),
			RecentExecutions: recent,
		})
	}

	return overviews, nil
}

func computeAnalytics(workflowID string, executions []*models.Execution) *models.AutomationAnalytics {
	analytics := &models.AutomationAnalytics{
		AutomationID:    workflowID,
		TotalExecutions: len(executions),
	}

	var totalDuration time.Duration

	timed := 0

	for _, execution := range executions {
		switch execution.Status {
		case models.ExecutionStatusCompleted:
			analytics.SuccessfulExecutions++
		case models.ExecutionStatusFailed:
			analytics.FailedExecutions++
		case models.ExecutionStatusRunning:
			analytics.RunningExecutions++
		}

		if duration, ok := execution.Duration(); ok {
			totalDuration += duration
			timed++
		}

		countPerformance(&analytics.PerformanceMetrics, execution.Output)
	}

	if analytics.TotalExecutions > 0 {
		analytics.SuccessRate = float64(analytics.SuccessfulExecutions) / float64(analytics.TotalExecutions) * 100
	}

	if timed > 0 {
		analytics.AverageExecutionTimeMs = float64(totalDuration.Milliseconds()) / float64(timed)
	}

	return analytics
}

// countPerformance counts executions whose output carries a given action type
// key. Skipped actions do not count. Coarse proxies, not ledger counts.
func countPerformance(metrics *models.PerformanceMetrics, output map[string]any) {
	if outputHas(output, models.ActionSendEmail) {
		metrics.EmailsSent++
	}

	if outputHas(output, models.ActionSendSMS) {
		metrics.SMSSent++
	}

	if outputHas(output, models.ActionCreateTask) {
		metrics.TasksCreated++
	}

	if outputHas(output, models.ActionUpdateLead) {
		metrics.LeadsUpdated++
	}

	if outputHas(output, models.ActionAddToSegment) {
		metrics.SegmentChanges++
	}

	if outputHas(output, models.ActionRemoveFromSegment) {
		metrics.SegmentChanges++
	}

	if outputHas(output, models.ActionPostSocial) {
		metrics.SocialPosts++
	}

	if outputHas(output, models.ActionCreateCampaign) {
		metrics.CampaignsCreated++
	}

	if outputHas(output, models.ActionSendWebhook) {
		metrics.WebhooksSent++
	}
}

func outputHas(output map[string]any, actionType models.ActionType) bool {
	raw, ok := output[string(actionType)]
	if !ok {
		return false
	}

	if result, ok := raw.(map[string]any); ok {
		if skipped, ok := result["skipped"].(bool); ok && skipped {
			return false
		}
	}

	return true
}
