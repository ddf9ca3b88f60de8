// Package registry maps action types to their factories and validates action
// parameters against per-type schemas before dispatch.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
)

// ErrUnsupportedActionType aborts an in-flight execution when an action's
// type has no registered factory.
type ErrUnsupportedActionType struct {
	ActionType models.ActionType
}

func (e *ErrUnsupportedActionType) Error() string {
	return fmt.Sprintf("Unsupported action type: %s", e.ActionType)
}

type Registry struct {
	logger          *slog.Logger
	actionFactories map[models.ActionType]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:          logger,
		actionFactories: make(map[models.ActionType]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.actionFactories[factory.Type()] = factory
}

// CreateAction validates the parameters against the factory's schema and
// builds the handler. Unknown types return ErrUnsupportedActionType.
func (r *Registry) CreateAction(actionType models.ActionType, parameters map[string]any) (protocol.Action, error) {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return nil, &ErrUnsupportedActionType{ActionType: actionType}
	}

	if parameters == nil {
		parameters = map[string]any{}
	}

	if err := validateParameters(factory.ParameterSchema(), parameters); err != nil {
		return nil, fmt.Errorf("invalid parameters for action %s: %w", actionType, err)
	}

	return factory.Create(parameters)
}

// ActionTypes returns the registered action types.
func (r *Registry) ActionTypes() []models.ActionType {
	types := make([]models.ActionType, 0, len(r.actionFactories))
	for actionType := range r.actionFactories {
		types = append(types, actionType)
	}

	return types
}
