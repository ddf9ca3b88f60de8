// Package segment implements the add_to_segment and remove_from_segment
// actions. Both share the SegmentManager capability and differ only in
// direction, so they live in one package with two factories.
package segment

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
	segments   protocol.SegmentManager
	actionType models.ActionType
}

// NewAddFactory builds the add_to_segment factory.
func NewAddFactory(segments protocol.SegmentManager) *Factory {
	return &Factory{segments: segments, actionType: models.ActionAddToSegment}
}

// NewRemoveFactory builds the remove_from_segment factory.
func NewRemoveFactory(segments protocol.SegmentManager) *Factory {
	return &Factory{segments: segments, actionType: models.ActionRemoveFromSegment}
}

func (f *Factory) Type() models.ActionType {
	return f.actionType
}

func (f *Factory) ParameterSchema() map[string]any {
	return registry.ObjectSchema("leadId", "segmentId")
}

func (f *Factory) Create(parameters map[string]any) (protocol.Action, error) {
	if f.segments == nil {
		return nil, errors.New("segment capability not configured")
	}

	return &Action{segments: f.segments, actionType: f.actionType, parameters: parameters}, nil
}

type Action struct {
	segments   protocol.SegmentManager
	actionType models.ActionType
	parameters map[string]any
}

func (a *Action) Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error) {
	leadID, err := actions.StringParam(a.parameters, "leadId", input)
	if err != nil {
		return nil, err
	}

	segmentID, err := actions.StringParam(a.parameters, "segmentId", input)
	if err != nil {
		return nil, err
	}

	logger.Info("Changing segment membership", "lead_id", leadID, "segment_id", segmentID, "action", a.actionType)

	result := map[string]any{
		"leadId":       leadID,
		"segmentId":    segmentID,
		"membershipId": uuid.New().String(),
		"changedAt":    actions.Timestamp(),
	}

	if a.actionType == models.ActionAddToSegment {
		if err := a.segments.AddToSegment(ctx, leadID, segmentID); err != nil {
			return nil, fmt.Errorf("failed to add lead to segment: %w", err)
		}

		result["added"] = true

		return result, nil
	}

	if err := a.segments.RemoveFromSegment(ctx, leadID, segmentID); err != nil {
		return nil, fmt.Errorf("failed to remove lead from segment: %w", err)
	}

	result["removed"] = true

	return result, nil
}
