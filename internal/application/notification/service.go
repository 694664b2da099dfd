package notification

import (
	"context"

	"github.com/purchase-invoice/backend/internal/domain/notification"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service reads the notification trail and records webhook receipts
type Service struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewService creates a new notification Service
func NewService(repo notification.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns recorded notifications newest first. source filters when
// non-empty.
func (s *Service) List(ctx context.Context, source string) ([]NotificationResponse, error) {
	src := notification.Source(source)
	if src != "" && src != notification.SourceDispatcher && src != notification.SourceWebhook {
		return nil, shared.NewDomainError("INVALID_INPUT", "Source must be DISPATCHER or WEBHOOK")
	}

	events, err := s.repo.FindAll(ctx, src)
	if err != nil {
		return nil, err
	}

	responses := make([]NotificationResponse, len(events))
	for i := range events {
		responses[i] = ToNotificationResponse(&events[i])
	}
	return responses, nil
}

// ReceiveWebhook records a payload delivered to the mock receiver
func (s *Service) ReceiveWebhook(ctx context.Context, payload WebhookPayload) (*NotificationResponse, error) {
	event := notification.NewEventFromPayload(payload.toDomain(), notification.SourceWebhook)
	if err := s.repo.Save(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("webhook received",
		zap.String("invoice_id", event.InvoiceID),
		zap.String("message", event.Message),
	)

	resp := ToNotificationResponse(event)
	return &resp, nil
}
