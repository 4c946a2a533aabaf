package notification

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  []byte
}

func newTestEmailChannel(cfg EmailConfig) (*EmailChannel, *[]capturedMail) {
	channel := NewEmailChannel(cfg, zap.NewNop())
	var sent []capturedMail
	channel.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, capturedMail{addr, a, from, to, msg})
		return nil
	}
	return channel, &sent
}

func TestEmailChannel_Send(t *testing.T) {
	channel, sent := newTestEmailChannel(EmailConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "noreply@example.com",
	})

	err := channel.Send(context.Background(), "client@example.com", "Request #1 Status Updated", "The request for client-9 has moved from QUOTATION to SUPPLIER_INTERACTION.")
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, "noreply@example.com", mail.from)
	assert.Equal(t, []string{"client@example.com"}, mail.to)
	assert.Nil(t, mail.auth, "no auth expected without username")

	msg := string(mail.msg)
	assert.Contains(t, msg, "Subject: Request #1 Status Updated")
	assert.Contains(t, msg, "To: client@example.com")
	assert.True(t, strings.HasSuffix(msg, "The request for client-9 has moved from QUOTATION to SUPPLIER_INTERACTION.\r\n"))
}

func TestEmailChannel_Send_SkipsNonEmailRecipients(t *testing.T) {
	channel, sent := newTestEmailChannel(EmailConfig{Host: "smtp.example.com", Port: 587})

	// Client identifiers are not always addresses; those are silently skipped
	require.NoError(t, channel.Send(context.Background(), "client-9", "subject", "body"))
	assert.Empty(t, *sent)
}

func TestEmailChannel_Send_UsesPlainAuthWhenConfigured(t *testing.T) {
	channel, sent := newTestEmailChannel(EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "noreply@example.com",
		Username: "mailer",
		Password: "secret",
	})

	require.NoError(t, channel.Send(context.Background(), "ops@example.com", "s", "b"))
	require.Len(t, *sent, 1)
	assert.NotNil(t, (*sent)[0].auth)
}

func TestEmailChannel_Send_PropagatesSMTPError(t *testing.T) {
	channel := NewEmailChannel(EmailConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop())
	smtpErr := errors.New("connection refused")
	channel.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return smtpErr
	}

	err := channel.Send(context.Background(), "ops@example.com", "s", "b")
	assert.ErrorIs(t, err, smtpErr)
}

func TestEmailChannel_Send_CancelledContext(t *testing.T) {
	channel, sent := newTestEmailChannel(EmailConfig{Host: "smtp.example.com", Port: 587})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, channel.Send(ctx, "ops@example.com", "s", "b"))
	assert.Empty(t, *sent)
}

func TestEmailChannel_Name(t *testing.T) {
	channel, _ := newTestEmailChannel(EmailConfig{})
	assert.Equal(t, "email", channel.Name())
}
