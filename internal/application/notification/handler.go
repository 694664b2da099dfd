package notification

import (
	"context"
	"fmt"

	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Emitter is the part of Dispatcher the event handler needs
type Emitter interface {
	Emit(ctx context.Context, snap invoice.Snapshot, message string) error
}

// InvoiceEventHandler turns rejection and cancellation events into
// notifications. Approvals are not notified.
type InvoiceEventHandler struct {
	emitter Emitter
	logger  *zap.Logger
}

// NewInvoiceEventHandler creates a new handler
func NewInvoiceEventHandler(emitter Emitter, logger *zap.Logger) *InvoiceEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceEventHandler{emitter: emitter, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceEventHandler) EventTypes() []string {
	return []string{invoice.EventTypeInvoiceRejected, invoice.EventTypeInvoiceCancelled}
}

// Handle emits the notification carried by the event
func (h *InvoiceEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *invoice.InvoiceRejectedEvent:
		return h.emitter.Emit(ctx, e.Invoice, e.Message)
	case *invoice.InvoiceCancelledEvent:
		return h.emitter.Emit(ctx, e.Invoice, e.Message)
	default:
		h.logger.Error("unexpected event type",
			zap.Strings("expected", h.EventTypes()),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

var _ shared.EventHandler = (*InvoiceEventHandler)(nil)
