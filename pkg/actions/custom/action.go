// Package custom implements the custom action: it renders a configured
// template against the triggering payload and records the result. Useful for
// enriching the execution output without an external side effect.
package custom

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/registry"
	"github.com/dukex/leadflow/pkg/template"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Type() models.ActionType {
	return models.ActionCustom
}

func (f *Factory) ParameterSchema() map[string]any {
	return registry.ObjectSchema("template")
}

func (f *Factory) Create(parameters map[string]any) (protocol.Action, error) {
	return &Action{parameters: parameters}, nil
}

type Action struct {
	parameters map[string]any
}

func (a *Action) Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error) {
	templateStr, _ := a.parameters["template"].(string)

	logger.Info("Executing custom action")

	result, err := template.Render(templateStr, input)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"executed":   true,
		"result":     result,
		"actionId":   uuid.New().String(),
		"executedAt": actions.Timestamp(),
	}, nil
}
