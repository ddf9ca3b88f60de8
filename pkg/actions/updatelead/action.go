// Package updatelead implements the update_lead action.
package updatelead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/registry"
)

type Factory struct {
	leads protocol.LeadUpdater
}

func NewFactory(leads protocol.LeadUpdater) *Factory {
	return &Factory{leads: leads}
}

func (f *Factory) Type() models.ActionType {
	return models.ActionUpdateLead
}

func (f *Factory) ParameterSchema() map[string]any {
	schema := registry.ObjectSchema("leadId")
	schema["properties"].(map[string]any)["updates"] = map[string]any{"type": "object"}

	return schema
}

func (f *Factory) Create(parameters map[string]any) (protocol.Action, error) {
	if f.leads == nil {
		return nil, errors.New("lead capability not configured")
	}

	return &Action{leads: f.leads, parameters: parameters}, nil
}

type Action struct {
	leads      protocol.LeadUpdater
	parameters map[string]any
}

func (a *Action) Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error) {
	leadID, err := actions.StringParam(a.parameters, "leadId", input)
	if err != nil {
		return nil, err
	}

	updates := actions.MapParam(a.parameters, "updates")

	logger.Info("Updating lead", "lead_id", leadID, "fields", len(updates))

	if err := a.leads.UpdateLead(ctx, leadID, updates); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	return map[string]any{
		"updated":   true,
		"leadId":    leadID,
		"updates":   updates,
		"updateId":  uuid.New().String(),
		"updatedAt": actions.Timestamp(),
	}, nil
}
