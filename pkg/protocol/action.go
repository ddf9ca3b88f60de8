// Package protocol defines the interfaces between the workflow engine, the
// action handlers and the external capability providers.
package protocol

import (
	"context"
	"log/slog"

	"github.com/dukex/leadflow/pkg/models"
)

// Action is one executable workflow step. Execute reads the triggering
// payload and returns the action's result map: a per-type success flag, an
// opaque correlation id and a completion timestamp.
type Action interface {
	Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error)
}

// ActionFactory builds an Action from its validated parameters.
type ActionFactory interface {
	Create(parameters map[string]any) (Action, error)
	Type() models.ActionType

	// ParameterSchema returns the JSON schema the parameters are validated
	// against before Create is called. Nil means no validation.
	ParameterSchema() map[string]any
}
