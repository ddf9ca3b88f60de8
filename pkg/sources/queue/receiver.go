// Package queue receives business events from a Redis stream and hands them
// to the engine's event fan-out. An external producer (the CRM, the tracking
// pixel, a CDC pipeline) writes one entry per business event.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/dukex/leadflow/pkg/models"
)

const (
	readBatchSize = 10
	readBlock     = time.Second
)

// Event is one inbound business event as carried on the stream.
type Event struct {
	SiteID  string             `json:"site_id"`
	Trigger models.TriggerType `json:"trigger"`
	Data    map[string]any     `json:"data"`
}

// Handler processes one decoded event. Errors are logged, not retried; the
// entry is acknowledged either way.
type Handler func(ctx context.Context, event Event) error

type Config struct {
	RedisURL      string
	Stream        string
	ConsumerGroup string
	ConsumerName  string
}

// Receiver is a consumer-group member on the business event stream.
type Receiver struct {
	client        redis.UniversalClient
	stream        string
	consumerGroup string
	consumerName  string
	handler       Handler
	logger        *slog.Logger
	stopCh        chan struct{}
	wg            sync.WaitGroup
}

func NewReceiver(config Config, logger *slog.Logger) (*Receiver, error) {
	if config.Stream == "" {
		return nil, errors.New("stream name is required")
	}

	if config.ConsumerGroup == "" {
		return nil, errors.New("consumer group is required")
	}

	options, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	consumerName := config.ConsumerName
	if consumerName == "" {
		consumerName = "leadflow-worker"
	}

	return &Receiver{
		client:        redis.NewClient(options),
		stream:        config.Stream,
		consumerGroup: config.ConsumerGroup,
		consumerName:  consumerName,
		stopCh:        make(chan struct{}),
		logger: logger.With(
			"module", "queue_receiver",
			"stream", config.Stream,
			"consumer_group", config.ConsumerGroup,
		),
	}, nil
}

func (r *Receiver) Start(ctx context.Context, handler Handler) error {
	r.handler = handler

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	err := r.client.XGroupCreateMkStream(ctx, r.stream, r.consumerGroup, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.InfoContext(ctx, "Starting queue receiver", "consumer", r.consumerName)

	r.wg.Add(1)

	go r.consume(ctx)

	return nil
}

func (r *Receiver) consume(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopCh:
			r.logger.InfoContext(ctx, "Queue receiver stopped")

			return
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "Context cancelled, stopping queue receiver")

			return
		default:
			if err := r.readBatch(ctx); err != nil {
				r.logger.ErrorContext(ctx, "Error reading from stream", "error", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (r *Receiver) readBatch(ctx context.Context) error {
	streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    r.consumerGroup,
		Consumer: r.consumerName,
		Streams:  []string{r.stream, ">"},
		Count:    readBatchSize,
		Block:    readBlock,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			event, err := decodeEvent(message.Values)
			if err != nil {
				r.logger.WarnContext(ctx, "Dropping undecodable stream entry",
					"entry_id", message.ID, "error", err)
			} else if err := r.handler(ctx, event); err != nil {
				r.logger.ErrorContext(ctx, "Error handling business event",
					"entry_id", message.ID, "trigger", string(event.Trigger), "error", err)
			}

			if err := r.client.XAck(ctx, r.stream, r.consumerGroup, message.ID).Err(); err != nil {
				r.logger.ErrorContext(ctx, "Failed to ack stream entry",
					"entry_id", message.ID, "error", err)
			}
		}
	}

	return nil
}

// decodeEvent reads a stream entry in either shape: a single json "payload"
// field, or site_id/trigger/data fields where data is a json object.
func decodeEvent(values map[string]any) (Event, error) {
	var event Event

	if payload, ok := values["payload"].(string); ok {
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return event, fmt.Errorf("invalid payload json: %w", err)
		}
	} else {
		event.SiteID, _ = values["site_id"].(string)

		if trigger, ok := values["trigger"].(string); ok {
			event.Trigger = models.TriggerType(trigger)
		}

		if data, ok := values["data"].(string); ok && data != "" {
			if err := json.Unmarshal([]byte(data), &event.Data); err != nil {
				return event, fmt.Errorf("invalid data json: %w", err)
			}
		}
	}

	if event.SiteID == "" {
		return event, errors.New("event is missing site_id")
	}

	if !event.Trigger.IsValid() {
		return event, fmt.Errorf("unknown trigger type: %s", event.Trigger)
	}

	return event, nil
}

func (r *Receiver) Stop(ctx context.Context) error {
	r.logger.InfoContext(ctx, "Stopping queue receiver")

	close(r.stopCh)
	r.wg.Wait()

	if err := r.client.Close(); err != nil {
		r.logger.ErrorContext(ctx, "Error closing Redis client", "error", err)
	}

	return nil
}
