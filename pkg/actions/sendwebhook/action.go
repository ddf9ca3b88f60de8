// Package sendwebhook implements the send_webhook action: one outbound HTTP
// call whose status code is captured into the result.
package sendwebhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/registry"
)

type Factory struct {
	webhooks protocol.WebhookCaller
}

func NewFactory(webhooks protocol.WebhookCaller) *Factory {
	return &Factory{webhooks: webhooks}
}

func (f *Factory) Type() models.ActionType {
	return models.ActionSendWebhook
}

func (f *Factory) ParameterSchema() map[string]any {
	schema := registry.ObjectSchema("url")
	schema["properties"].(map[string]any)["body"] = map[string]any{"type": "object"}

	return schema
}

func (f *Factory) Create(parameters map[string]any) (protocol.Action, error) {
	if f.webhooks == nil {
		return nil, errors.New("webhook capability not configured")
	}

	return &Action{webhooks: f.webhooks, parameters: parameters}, nil
}

type Action struct {
	webhooks   protocol.WebhookCaller
	parameters map[string]any
}

func (a *Action) Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error) {
	url, err := actions.StringParam(a.parameters, "url", input)
	if err != nil {
		return nil, err
	}

	method, err := actions.StringParam(a.parameters, "method", input)
	if err != nil {
		return nil, err
	}

	if method == "" {
		method = "POST"
	}

	body := actions.MapParam(a.parameters, "body")
	if len(body) == 0 {
		body = input
	}

	logger.Info("Calling webhook", "url", url, "method", method)

	statusCode, err := a.webhooks.CallWebhook(ctx, url, strings.ToUpper(method), body)
	if err != nil {
		return nil, fmt.Errorf("webhook call failed: %w", err)
	}

	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("webhook returned status %d", statusCode)
	}

	return map[string]any{
		"sent":       true,
		"url":        url,
		"method":     strings.ToUpper(method),
		"statusCode": statusCode,
		"webhookId":  uuid.New().String(),
		"sentAt":     actions.Timestamp(),
	}, nil
}
