package sinks

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/daniacca/ecosim/internal/eco"
)

// WebhookSink POSTs each snapshot as JSON to a configured URL.
type WebhookSink struct {
	id      string
	url     string
	client  *http.Client
	headers map[string]string
}

// NewWebhookSink creates a webhook sink for the given URL.
func NewWebhookSink(id, url string) *WebhookSink {
	return &WebhookSink{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
	}
}

// SetHeader sets a custom header sent with every delivery.
func (wh *WebhookSink) SetHeader(key, value string) {
	if wh.headers == nil {
		wh.headers = make(map[string]string)
	}
	wh.headers[key] = value
}

// ID returns the sink ID.
func (wh *WebhookSink) ID() string {
	return wh.id
}

// Type returns the sink type.
func (wh *WebhookSink) Type() string {
	return "webhook"
}

// URL returns the delivery target.
func (wh *WebhookSink) URL() string {
	return wh.url
}

// Publish POSTs the snapshot to the webhook URL.
func (wh *WebhookSink) Publish(ctx context.Context, snapshot eco.Snapshot) error {
	data, err := eco.EncodeSnapshotJSON(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range wh.headers {
		req.Header.Set(key, value)
	}

	resp, err := wh.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// Close is a no-op for webhooks.
func (wh *WebhookSink) Close() error {
	return nil
}
