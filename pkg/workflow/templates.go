package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukex/leadflow/pkg/models"
)

// TemplateCatalog holds pre-built workflow shapes used as creation starting
// points. Seeded with the built-in catalog; Create adds caller templates for
// the lifetime of the process.
type TemplateCatalog struct {
	mu        sync.RWMutex
	templates []*models.WorkflowTemplate
}

func NewTemplateCatalog() *TemplateCatalog {
	return &TemplateCatalog{templates: builtinTemplates()}
}

// List returns every template, built-ins first.
func (c *TemplateCatalog) List() []*models.WorkflowTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	templates := make([]*models.WorkflowTemplate, len(c.templates))
	copy(templates, c.templates)

	return templates
}

// Get returns one template by id.
func (c *TemplateCatalog) Get(id string) (*models.WorkflowTemplate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, template := range c.templates {
		if template.ID == id {
			return template, true
		}
	}

	return nil, false
}

// Create stamps an id and timestamp onto the template and adds it to the
// catalog. Templates are pure data; workflows created from one go through the
// usual creation validation.
func (c *TemplateCatalog) Create(template *models.WorkflowTemplate) *models.WorkflowTemplate {
	template.ID = uuid.New().String()
	template.CreatedAt = time.Now().UTC()

	if template.Type == "" {
		template.Type = models.WorkflowTypeCustom
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.templates = append(c.templates, template)

	return template
}

func builtinTemplates() []*models.WorkflowTemplate {
	seeded := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	return []*models.WorkflowTemplate{
		{
			ID:          "tpl-welcome-series",
			Name:        "Welcome Series",
			Description: "Greets new leads with a short email sequence and files them into the newcomers segment.",
			Type:        models.WorkflowTypeEmailSequence,
			Triggers: []models.Trigger{
				{Type: models.TriggerLeadCreated},
			},
			Actions: []models.Action{
				{Type: models.ActionSendEmail, Parameters: map[string]any{
					"template": "welcome-1",
					"subject":  "Welcome aboard",
				}},
				{Type: models.ActionAddToSegment, Parameters: map[string]any{
					"leadId":    "{{ .lead_id }}",
					"segmentId": "newcomers",
				}},
			},
			CreatedAt: seeded,
		},
		{
			ID:          "tpl-lead-scoring",
			Name:        "Lead Scoring",
			Description: "Bumps the lead score on form submissions and opens a follow-up task for hot leads.",
			Type:        models.WorkflowTypeLeadScoring,
			Triggers: []models.Trigger{
				{Type: models.TriggerFormSubmitted},
			},
			Actions: []models.Action{
				{Type: models.ActionUpdateLead, Parameters: map[string]any{
					"leadId": "{{ .lead_id }}",
					"updates": map[string]any{
						"score_delta": 10,
					},
				}},
				{
					Type: models.ActionCreateTask,
					Parameters: map[string]any{
						"title":    "Follow up with {{ .lead_id }}",
						"assignee": "sales",
					},
					Conditions: []models.Condition{
						{Field: "score", Operator: models.OperatorGreaterThan, Value: 80},
					},
				},
			},
			CreatedAt: seeded,
		},
		{
			ID:          "tpl-abandoned-cart",
			Name:        "Abandoned Cart Recovery",
			Description: "Nudges leads who left a purchase unfinished with an email and an SMS reminder.",
			Type:        models.WorkflowTypeLeadNurturing,
			Triggers: []models.Trigger{
				{Type: models.TriggerCustom, Conditions: map[string]any{"event": "cart_abandoned"}},
			},
			Actions: []models.Action{
				{Type: models.ActionSendEmail, Parameters: map[string]any{
					"template": "cart-reminder",
					"subject":  "You left something behind",
				}},
				{
					Type:         models.ActionSendSMS,
					DelayMinutes: 60,
					Parameters: map[string]any{
						"phoneNumber": "{{ .phone }}",
						"message":     "Your cart is waiting for you.",
					},
				},
			},
			CreatedAt: seeded,
		},
		{
			ID:          "tpl-social-engagement",
			Name:        "Social Engagement",
			Description: "Thanks engaged followers publicly and records the touch on the lead.",
			Type:        models.WorkflowTypeSocialMedia,
			Triggers: []models.Trigger{
				{Type: models.TriggerSocialEngagement},
			},
			Actions: []models.Action{
				{Type: models.ActionPostSocial, Parameters: map[string]any{
					"platform": "twitter",
					"content":  "Thanks for the love, {{ .handle }}!",
				}},
				{Type: models.ActionUpdateLead, Parameters: map[string]any{
					"leadId": "{{ .lead_id }}",
					"updates": map[string]any{
						"last_touch": "social",
					},
				}},
			},
			CreatedAt: seeded,
		},
	}
}
