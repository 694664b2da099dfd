package invoice

import (
	"github.com/purchase-invoice/backend/internal/domain/shared"
)

// Invoice domain event types
const (
	EventTypeInvoiceApproved  = "InvoiceApproved"
	EventTypeInvoiceRejected  = "InvoiceRejected"
	EventTypeInvoiceCancelled = "InvoiceCancelled"
)

// Notification messages
const (
	MessageRejected  = "Invoice rejected: limit exceeded"
	MessageCancelled = "Invoice cancelled by user"
)

// InvoiceApprovedEvent is published when a new invoice is approved
type InvoiceApprovedEvent struct {
	shared.BaseDomainEvent
	Invoice Snapshot `json:"invoice"`
}

// NewInvoiceApprovedEvent creates a new InvoiceApprovedEvent
func NewInvoiceApprovedEvent(inv *Invoice) *InvoiceApprovedEvent {
	snap := inv.Snapshot()
	return &InvoiceApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceApproved, AggregateTypeInvoice, snap.InvoiceIDString()),
		Invoice:         snap,
	}
}

// InvoiceRejectedEvent is published when a new invoice exceeds the limit
type InvoiceRejectedEvent struct {
	shared.BaseDomainEvent
	Invoice Snapshot `json:"invoice"`
	Message string   `json:"message"`
}

// NewInvoiceRejectedEvent creates a new InvoiceRejectedEvent
func NewInvoiceRejectedEvent(inv *Invoice) *InvoiceRejectedEvent {
	snap := inv.Snapshot()
	return &InvoiceRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceRejected, AggregateTypeInvoice, snap.InvoiceIDString()),
		Invoice:         snap,
		Message:         MessageRejected,
	}
}

// InvoiceCancelledEvent is published when the owner cancels a rejected invoice
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	Invoice Snapshot `json:"invoice"`
	Message string   `json:"message"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	snap := inv.Snapshot()
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, snap.InvoiceIDString()),
		Invoice:         snap,
		Message:         MessageCancelled,
	}
}
