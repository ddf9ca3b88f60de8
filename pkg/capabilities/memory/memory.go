// Package memory provides in-process capability providers that record every
// invocation and hand back generated receipt ids. Used for local development
// and as test doubles; real gateways replace them in deployment.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Call records one capability invocation.
type Call struct {
	Kind   string
	Fields map[string]any
}

// Provider implements every capability interface in pkg/protocol.
type Provider struct {
	mu    sync.Mutex
	calls []Call

	// FailWith, when set, makes every call return this error.
	FailWith error
}

func NewProvider() *Provider {
	return &Provider{}
}

// Calls returns a copy of the recorded invocations in order.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()

	calls := make([]Call, len(p.calls))
	copy(calls, p.calls)

	return calls
}

// CallsOf returns the recorded invocations of one kind.
func (p *Provider) CallsOf(kind string) []Call {
	var matches []Call

	for _, call := range p.Calls() {
		if call.Kind == kind {
			matches = append(matches, call)
		}
	}

	return matches
}

func (p *Provider) record(kind string, fields map[string]any) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailWith != nil {
		return "", p.FailWith
	}

	p.calls = append(p.calls, Call{Kind: kind, Fields: fields})

	return uuid.New().String(), nil
}

func (p *Provider) SendEmail(ctx context.Context, recipient, subject, template string) (string, error) {
	return p.record("send_email", map[string]any{
		"recipient": recipient, "subject": subject, "template": template,
	})
}

func (p *Provider) SendSMS(ctx context.Context, phoneNumber, message string) (string, error) {
	return p.record("send_sms", map[string]any{
		"phoneNumber": phoneNumber, "message": message,
	})
}

func (p *Provider) CreateTask(ctx context.Context, title, description, assignee string) (string, error) {
	return p.record("create_task", map[string]any{
		"title": title, "description": description, "assignee": assignee,
	})
}

func (p *Provider) UpdateLead(ctx context.Context, leadID string, updates map[string]any) error {
	_, err := p.record("update_lead", map[string]any{
		"leadId": leadID, "updates": updates,
	})

	return err
}

func (p *Provider) AddToSegment(ctx context.Context, leadID, segmentID string) error {
	_, err := p.record("add_to_segment", map[string]any{
		"leadId": leadID, "segmentId": segmentID,
	})

	return err
}

func (p *Provider) RemoveFromSegment(ctx context.Context, leadID, segmentID string) error {
	_, err := p.record("remove_from_segment", map[string]any{
		"leadId": leadID, "segmentId": segmentID,
	})

	return err
}

func (p *Provider) PostSocial(ctx context.Context, platform, content string) (string, error) {
	return p.record("post_social", map[string]any{
		"platform": platform, "content": content,
	})
}

func (p *Provider) CreateCampaign(ctx context.Context, name, campaignType, targetAudience string, budget float64) (string, error) {
	return p.record("create_campaign", map[string]any{
		"name": name, "type": campaignType, "targetAudience": targetAudience, "budget": budget,
	})
}

func (p *Provider) CallWebhook(ctx context.Context, url, method string, body map[string]any) (int, error) {
	_, err := p.record("send_webhook", map[string]any{
		"url": url, "method": method, "body": body,
	})
	if err != nil {
		return 0, err
	}

	return 200, nil
}
