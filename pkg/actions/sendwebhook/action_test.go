package sendwebhook

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/leadflow/pkg/capabilities/memory"
)

type statusCaller struct {
	status int
}

func (c statusCaller) CallWebhook(ctx context.Context, url, method string, body map[string]any) (int, error) {
	return c.status, nil
}

func TestAction_Execute(t *testing.T) {
	provider := memory.NewProvider()
	factory := NewFactory(provider)

	action, err := factory.Create(map[string]any{
		"url":    "https://hooks.example.com/lead",
		"method": "post",
	})
	require.NoError(t, err)

	result, err := action.Execute(t.Context(), map[string]any{"lead_id": "lead-1"}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, true, result["sent"])
	assert.Equal(t, "POST", result["method"])
	assert.Equal(t, 200, result["statusCode"])
	assert.NotEmpty(t, result["webhookId"])

	// Empty body parameter forwards the triggering payload.
	calls := provider.CallsOf("send_webhook")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"lead_id": "lead-1"}, calls[0].Fields["body"])
}

func TestAction_Execute_NonSuccessStatusFails(t *testing.T) {
	factory := NewFactory(statusCaller{status: 500})

	action, err := factory.Create(map[string]any{"url": "https://hooks.example.com/lead"})
	require.NoError(t, err)

	_, err = action.Execute(t.Context(), map[string]any{}, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
