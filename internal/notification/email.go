package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"go.uber.org/zap"
)

// EmailConfig holds SMTP settings
type EmailConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// EmailChannel delivers notifications over SMTP
type EmailChannel struct {
	cfg    EmailConfig
	logger *zap.Logger

	// send is swappable for tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailChannel creates an SMTP-backed notification channel
func NewEmailChannel(cfg EmailConfig, logger *zap.Logger) *EmailChannel {
	return &EmailChannel{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Name identifies the channel in logs
func (c *EmailChannel) Name() string {
	return "email"
}

// Send delivers a message to a single recipient address. Recipients
// that are not email addresses are skipped silently.
func (c *EmailChannel) Send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.Contains(recipient, "@") {
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		c.cfg.From, recipient, subject, body,
	))

	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	if err := c.send(addr, auth, c.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	c.logger.Debug("Email sent", zap.String("recipient", recipient), zap.String("subject", subject))
	return nil
}

// Verify interface compliance
var _ port.NotificationChannel = (*EmailChannel)(nil)
