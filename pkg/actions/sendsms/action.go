// Package sendsms implements the send_sms action.
package sendsms

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
	sms protocol.SMSSender
}

func NewFactory(sms protocol.SMSSender) *Factory {
	return &Factory{sms: sms}
}

func (f *Factory) Type() models.ActionType {
	return models.ActionSendSMS
}

func (f *Factory) ParameterSchema() map[string]any {
	return registry.ObjectSchema("phoneNumber", "message")
}

func (f *Factory) Create(parameters map[string]any) (protocol.Action, error) {
	if f.sms == nil {
		return nil, errors.New("sms capability not configured")
	}

	return &Action{sms: f.sms, parameters: parameters}, nil
}

type Action struct {
	sms        protocol.SMSSender
	parameters map[string]any
}

func (a *Action) Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error) {
	phoneNumber, err := actions.StringParam(a.parameters, "phoneNumber", input)
	if err != nil {
		return nil, err
	}

	message, err := actions.StringParam(a.parameters, "message", input)
	if err != nil {
		return nil, err
	}

	logger.Info("Sending SMS", "phone_number", phoneNumber)

	messageID, err := a.sms.SendSMS(ctx, phoneNumber, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send sms: %w", err)
	}

	return map[string]any{
		"sent":        true,
		"phoneNumber": phoneNumber,
		"message":     message,
		"messageId":   messageID,
		"sentAt":      actions.Timestamp(),
	}, nil
}
