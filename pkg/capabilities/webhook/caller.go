// Package webhook provides the HTTP implementation of the WebhookCaller
// capability.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

type Caller struct {
	client  *http.Client
	timeout time.Duration
}

func NewCaller() *Caller {
	return &Caller{
		client:  &http.Client{},
		timeout: defaultTimeout,
	}
}

// CallWebhook performs the request and returns the response status code. The
// response body is not interpreted.
func (c *Caller) CallWebhook(ctx context.Context, url, method string, body map[string]any) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to encode webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
