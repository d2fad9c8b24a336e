package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// WebhookConfig configures the SMS gateway sender.
type WebhookConfig struct {
	URL     string
	Token   string
	TTL     time.Duration
	Timeout time.Duration
	Retries uint64
}

// Webhook sends codes as SMS through an HTTP gateway that accepts a JSON POST.
type Webhook struct {
	cfg    WebhookConfig
	client *http.Client
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// NewWebhook creates an SMS gateway sender.
func NewWebhook(cfg WebhookConfig) *Webhook {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Webhook{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Send posts the message to the gateway. Server errors and transport
// failures are retried with exponential backoff; 4xx answers are not.
func (w *Webhook) Send(ctx context.Context, destination, code, displayName string) error {
	body, err := json.Marshal(smsRequest{
		To:      destination,
		Message: message(code, displayName, int(w.cfg.TTL/time.Second)),
	})
	if err != nil {
		return fmt.Errorf("encoding sms request: %w", err)
	}

	backoff := retry.WithMaxRetries(w.cfg.Retries, retry.NewExponential(200*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("building sms request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if w.cfg.Token != "" {
			req.Header.Set("Authorization", "Bearer "+w.cfg.Token)
		}

		resp, err := w.client.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("posting sms request: %w", err))
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		switch {
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("sms gateway returned %s", resp.Status))
		case resp.StatusCode >= 300:
			return fmt.Errorf("sms gateway returned %s", resp.Status)
		}
		return nil
	})
}
