package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"go.uber.org/zap"
)

// WebhookChannel posts notifications as JSON to an operations endpoint
type WebhookChannel struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookChannel creates a webhook-backed notification channel. The
// url is the default endpoint used when a recipient is not itself a URL.
func NewWebhookChannel(url string, logger *zap.Logger) *WebhookChannel {
	return &WebhookChannel{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Name identifies the channel in logs
func (c *WebhookChannel) Name() string {
	return "webhook"
}

// Send posts a title/text payload. Recipients that look like URLs
// override the configured endpoint; anything else goes to the default.
func (c *WebhookChannel) Send(ctx context.Context, recipient, subject, body string) error {
	endpoint := c.url
	if len(recipient) > 4 && recipient[:4] == "http" {
		endpoint = recipient
	}
	if endpoint == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"title": subject,
		"text":  body,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	c.logger.Debug("Webhook delivered", zap.String("endpoint", endpoint), zap.String("subject", subject))
	return nil
}

// Verify interface compliance
var _ port.NotificationChannel = (*WebhookChannel)(nil)
