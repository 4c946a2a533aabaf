package service

import (
	"context"
	"fmt"

	"github.com/rcamargo/equiptrack/internal/application/dispatcher"
	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/event"
)

// NotificationService turns workflow events into outbound messages.
// Delivery is best effort: failures are logged and never surface to the
// operation that produced the event.
type NotificationService interface {
	// RegisterHandlers subscribes the service to workflow events
	RegisterHandlers(d dispatcher.Dispatcher)

	// NotifyStatusChange fans a status-change message out to the
	// request's client and the configured operations recipients
	NotifyStatusChange(ctx context.Context, requestID int64, previous, next string) error
}

type notificationServiceImpl struct {
	requestRepo   port.RequestRepository
	channels      []port.NotificationChannel
	opsRecipients []string
	logger        Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	requestRepo port.RequestRepository,
	channels []port.NotificationChannel,
	opsRecipients []string,
	logger Logger,
) NotificationService {
	return &notificationServiceImpl{
		requestRepo:   requestRepo,
		channels:      channels,
		opsRecipients: opsRecipients,
		logger:        logger,
	}
}

// RegisterHandlers subscribes the service to workflow events
func (s *notificationServiceImpl) RegisterHandlers(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeStatusChanged, "notify-status-change", s.handleStatusChanged)
}

func (s *notificationServiceImpl) handleStatusChanged(ctx context.Context, evt *event.Event) error {
	previous := evt.GetPayloadString("previous_status")
	next := evt.GetPayloadString("new_status")
	return s.NotifyStatusChange(ctx, evt.RequestID, previous, next)
}

// NotifyStatusChange sends the status-change message on every channel
func (s *notificationServiceImpl) NotifyStatusChange(ctx context.Context, requestID int64, previous, next string) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("get request: %w", err)
	}
	if request == nil {
		return fmt.Errorf("request %d not found", requestID)
	}

	subject := fmt.Sprintf("Request #%d Status Updated", requestID)
	body := fmt.Sprintf("The request for %s has moved from %s to %s.", request.ClientID, previous, next)

	recipients := make([]string, 0, len(s.opsRecipients)+1)
	recipients = append(recipients, request.ClientID)
	recipients = append(recipients, s.opsRecipients...)

	for _, ch := range s.channels {
		for _, recipient := range recipients {
			if err := ch.Send(ctx, recipient, subject, body); err != nil {
				// Best effort, keep going
				s.logger.Error("Failed to send notification",
					"channel", ch.Name(),
					"recipient", recipient,
					"request_id", requestID,
					"error", err,
				)
				continue
			}
			s.logger.Info("Notification sent",
				"channel", ch.Name(),
				"recipient", recipient,
				"request_id", requestID,
			)
		}
	}

	return nil
}
