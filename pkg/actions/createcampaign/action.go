// Package createcampaign implements the create_campaign action.
package createcampaign

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
	campaigns protocol.CampaignCreator
}

func NewFactory(campaigns protocol.CampaignCreator) *Factory {
	return &Factory{campaigns: campaigns}
}

func (f *Factory) Type() models.ActionType {
	return models.ActionCreateCampaign
}

func (f *Factory) ParameterSchema() map[string]any {
	schema := registry.ObjectSchema("name", "type")
	schema["properties"].(map[string]any)["budget"] = map[string]any{"type": "number", "minimum": 0}

	return schema
}

func (f *Factory) Create(parameters map[string]any) (protocol.Action, error) {
	if f.campaigns == nil {
		return nil, errors.New("campaign capability not configured")
	}

	return &Action{campaigns: f.campaigns, parameters: parameters}, nil
}

type Action struct {
	campaigns  protocol.CampaignCreator
	parameters map[string]any
}

func (a *Action) Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error) {
	name, err := actions.StringParam(a.parameters, "name", input)
	if err != nil {
		return nil, err
	}

	campaignType, err := actions.StringParam(a.parameters, "type", input)
	if err != nil {
		return nil, err
	}

	targetAudience, err := actions.StringParam(a.parameters, "targetAudience", input)
	if err != nil {
		return nil, err
	}

	budget := actions.FloatParam(a.parameters, "budget")

	logger.Info("Creating campaign", "name", name, "type", campaignType, "budget", budget)

	campaignID, err := a.campaigns.CreateCampaign(ctx, name, campaignType, targetAudience, budget)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return map[string]any{
		"created":        true,
		"name":           name,
		"type":           campaignType,
		"targetAudience": targetAudience,
		"budget":         budget,
		"campaignId":     campaignID,
		"createdAt":      actions.Timestamp(),
	}, nil
}
