// Package createtask implements the create_task action.
package createtask

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
	tasks protocol.TaskCreator
}

func NewFactory(tasks protocol.TaskCreator) *Factory {
	return &Factory{tasks: tasks}
}

func (f *Factory) Type() models.ActionType {
	return models.ActionCreateTask
}

func (f *Factory) ParameterSchema() map[string]any {
	return registry.ObjectSchema("title")
}

func (f *Factory) Create(parameters map[string]any) (protocol.Action, error) {
	if f.tasks == nil {
		return nil, errors.New("task capability not configured")
	}

	return &Action{tasks: f.tasks, parameters: parameters}, nil
}

type Action struct {
	tasks      protocol.TaskCreator
	parameters map[string]any
}

func (a *Action) Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error) {
	title, err := actions.StringParam(a.parameters, "title", input)
	if err != nil {
		return nil, err
	}

	description, err := actions.StringParam(a.parameters, "description", input)
	if err != nil {
		return nil, err
	}

	assignee, err := actions.StringParam(a.parameters, "assignee", input)
	if err != nil {
		return nil, err
	}

	logger.Info("Creating task", "title", title, "assignee", assignee)

	taskID, err := a.tasks.CreateTask(ctx, title, description, assignee)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return map[string]any{
		"created":   true,
		"title":     title,
		"assignee":  assignee,
		"taskId":    taskID,
		"createdAt": actions.Timestamp(),
	}, nil
}
