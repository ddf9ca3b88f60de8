package queue

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/leadflow/pkg/models"
)

func TestNewReceiver_ValidatesConfig(t *testing.T) {
	logger := slog.Default()

	_, err := NewReceiver(Config{RedisURL: "redis://localhost:6379"}, logger)
	assert.Error(t, err)

	_, err = NewReceiver(Config{RedisURL: "redis://localhost:6379", Stream: "leadflow.events"}, logger)
	assert.Error(t, err)

	_, err = NewReceiver(Config{RedisURL: "not a url", Stream: "leadflow.events", ConsumerGroup: "cg-worker"}, logger)
	assert.Error(t, err)

	receiver, err := NewReceiver(Config{
		RedisURL:      "redis://localhost:6379",
		Stream:        "leadflow.events",
		ConsumerGroup: "cg-worker",
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, "leadflow-worker", receiver.consumerName)
}

func TestDecodeEvent_PayloadField(t *testing.T) {
	event, err := decodeEvent(map[string]any{
		"payload": `{"site_id":"site-1","trigger":"lead_created","data":{"source":"website"}}`,
	})
	require.NoError(t, err)

	assert.Equal(t, "site-1", event.SiteID)
	assert.Equal(t, models.TriggerLeadCreated, event.Trigger)
	assert.Equal(t, "website", event.Data["source"])
}

func TestDecodeEvent_FlatFields(t *testing.T) {
	event, err := decodeEvent(map[string]any{
		"site_id": "site-1",
		"trigger": "email_opened",
		"data":    `{"campaign":"spring"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TriggerEmailOpened, event.Trigger)
	assert.Equal(t, "spring", event.Data["campaign"])
}

func TestDecodeEvent_Rejections(t *testing.T) {
	_, err := decodeEvent(map[string]any{"trigger": "lead_created"})
	assert.ErrorContains(t, err, "site_id")

	_, err = decodeEvent(map[string]any{"site_id": "site-1", "trigger": "bogus"})
	assert.ErrorContains(t, err, "unknown trigger type")

	_, err = decodeEvent(map[string]any{"payload": "{broken"})
	assert.ErrorContains(t, err, "invalid payload json")
}
