package segment

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/leadflow/pkg/capabilities/memory"
	"github.com/dukex/leadflow/pkg/models"
)

func TestAddFactory(t *testing.T) {
	provider := memory.NewProvider()
	factory := NewAddFactory(provider)
	assert.Equal(t, models.ActionAddToSegment, factory.Type())

	action, err := factory.Create(map[string]any{"leadId": "lead-1", "segmentId": "hot-leads"})
	require.NoError(t, err)

	result, err := action.Execute(t.Context(), map[string]any{}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, true, result["added"])
	assert.Equal(t, "lead-1", result["leadId"])
	assert.Equal(t, "hot-leads", result["segmentId"])
	assert.NotEmpty(t, result["membershipId"])
	require.Len(t, provider.CallsOf("add_to_segment"), 1)
}

func TestRemoveFactory(t *testing.T) {
	provider := memory.NewProvider()
	factory := NewRemoveFactory(provider)
	assert.Equal(t, models.ActionRemoveFromSegment, factory.Type())

	action, err := factory.Create(map[string]any{"leadId": "lead-1", "segmentId": "cold-leads"})
	require.NoError(t, err)

	result, err := action.Execute(t.Context(), map[string]any{}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, true, result["removed"])
	require.Len(t, provider.CallsOf("remove_from_segment"), 1)
}

func TestAction_RendersLeadIDFromPayload(t *testing.T) {
	provider := memory.NewProvider()
	factory := NewAddFactory(provider)

	action, err := factory.Create(map[string]any{"leadId": "{{ .lead_id }}", "segmentId": "hot-leads"})
	require.NoError(t, err)

	result, err := action.Execute(t.Context(), map[string]any{"lead_id": "lead-42"}, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "lead-42", result["leadId"])
}
