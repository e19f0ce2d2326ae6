package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"SubSignal/internal/domain"
	"SubSignal/internal/ports"
)

// Webhook delivers embed messages to a Discord-compatible webhook endpoint.
type Webhook struct {
	url      string
	username string
	client   *http.Client
}

var _ ports.Sink = (*Webhook)(nil)

// NewWebhook registers the endpoint URL and the author label attached to
// every message.
func NewWebhook(url, username string) *Webhook {
	return &Webhook{
		url:      url,
		username: username,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type webhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []domain.Embed `json:"embeds"`
}

// Send posts one message; any non-2xx status is a delivery failure.
func (w *Webhook) Send(ctx context.Context, embeds []domain.Embed) error {
	if w.url == "" {
		return fmt.Errorf("webhook sink misconfigured")
	}

	body, err := json.Marshal(webhookPayload{Username: w.username, Embeds: embeds})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("webhook error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	return nil
}
