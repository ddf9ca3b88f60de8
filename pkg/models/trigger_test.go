package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerType_IsValid(t *testing.T) {
	assert.True(t, TriggerLeadCreated.IsValid())
	assert.True(t, TriggerPurchaseMade.IsValid())
	assert.True(t, TriggerCustom.IsValid())
	assert.False(t, TriggerType("page_scrolled").IsValid())
	assert.False(t, TriggerType("").IsValid())
}

func TestTrigger_Validate(t *testing.T) {
	trigger := Trigger{Type: TriggerLeadCreated}
	assert.NoError(t, trigger.Validate())
}

func TestTrigger_Validate_UnknownType(t *testing.T) {
	trigger := Trigger{Type: "page_scrolled"}

	err := trigger.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown trigger type")
}

func TestTrigger_Validate_Schedules(t *testing.T) {
	cases := []struct {
		name     string
		schedule *TriggerSchedule
		wantErr  bool
	}{
		{"immediate", &TriggerSchedule{Kind: ScheduleImmediate}, false},
		{"delayed", &TriggerSchedule{Kind: ScheduleDelayed, DelayMinutes: 30}, false},
		{"valid recurring cron", &TriggerSchedule{Kind: ScheduleRecurring, CronExpression: "0 9 * * 1"}, false},
		{"valid scheduled cron", &TriggerSchedule{Kind: ScheduleScheduled, CronExpression: "*/5 * * * *"}, false},
		{"bad cron", &TriggerSchedule{Kind: ScheduleRecurring, CronExpression: "not a cron"}, true},
		{"unknown kind", &TriggerSchedule{Kind: "hourly"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trigger := Trigger{Type: TriggerEmailOpened, Schedule: tc.schedule}

			err := trigger.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWorkflow_Executable(t *testing.T) {
	workflow := &Workflow{IsActive: true, Status: WorkflowStatusActive}
	assert.True(t, workflow.Executable())

	assert.False(t, (&Workflow{IsActive: false, Status: WorkflowStatusActive}).Executable())
	assert.False(t, (&Workflow{IsActive: true, Status: WorkflowStatusDraft}).Executable())
	assert.False(t, (&Workflow{IsActive: true, Status: WorkflowStatusPaused}).Executable())
}

func TestWorkflow_TriggersFor(t *testing.T) {
	workflow := &Workflow{
		Triggers: []Trigger{
			{Type: TriggerLeadCreated, Conditions: map[string]any{"source": "website"}},
			{Type: TriggerEmailOpened},
			{Type: TriggerLeadCreated},
		},
	}

	assert.Len(t, workflow.TriggersFor(TriggerLeadCreated), 2)
	assert.Len(t, workflow.TriggersFor(TriggerEmailOpened), 1)
	assert.Empty(t, workflow.TriggersFor(TriggerPurchaseMade))
}

func TestExecutionStatus_Terminal(t *testing.T) {
	assert.False(t, ExecutionStatusRunning.Terminal())
	assert.True(t, ExecutionStatusCompleted.Terminal())
	assert.True(t, ExecutionStatusFailed.Terminal())
}
