// Package sendemail implements the send_email action: one templated email
// delivered through the EmailSender capability.
package sendemail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/registry"
)

type Factory struct {
	email protocol.EmailSender
}

func NewFactory(email protocol.EmailSender) *Factory {
	return &Factory{email: email}
}

func (f *Factory) Type() models.ActionType {
	return models.ActionSendEmail
}

func (f *Factory) ParameterSchema() map[string]any {
	return registry.ObjectSchema("template")
}

func (f *Factory) Create(parameters map[string]any) (protocol.Action, error) {
	if f.email == nil {
		return nil, errors.New("email capability not configured")
	}

	return &Action{email: f.email, parameters: parameters}, nil
}

type Action struct {
	email      protocol.EmailSender
	parameters map[string]any
}

func (a *Action) Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error) {
	recipient, err := actions.StringParam(a.parameters, "recipient", input)
	if err != nil {
		return nil, err
	}

	if recipient == "" {
		recipient, _ = input["email"].(string)
	}

	subject, err := actions.StringParam(a.parameters, "subject", input)
	if err != nil {
		return nil, err
	}

	templateName, _ := a.parameters["template"].(string)

	logger.Info("Sending email", "recipient", recipient, "template", templateName)

	messageID, err := a.email.SendEmail(ctx, recipient, subject, templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return map[string]any{
		"sent":      true,
		"recipient": recipient,
		"subject":   subject,
		"template":  templateName,
		"messageId": messageID,
		"sentAt":    actions.Timestamp(),
	}, nil
}
