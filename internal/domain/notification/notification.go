package notification

import (
	"time"

	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// Source tells which path wrote a record
type Source string

const (
	// SourceDispatcher marks records written when a notification is emitted
	SourceDispatcher Source = "DISPATCHER"
	// SourceWebhook marks records received by the mock webhook endpoint
	SourceWebhook Source = "WEBHOOK"
)

// Event is one append-only audit record of a rejection or cancellation
type Event struct {
	ID          int64
	InvoiceID   string
	Email       string
	FirstName   string
	LastName    string
	Amount      decimal.Decimal
	ProductName string
	BillNo      string
	Message     string
	Source      Source
	CreatedAt   time.Time
}

// NewEventFromSnapshot copies the invoice snapshot into a record
func NewEventFromSnapshot(snap invoice.Snapshot, message string, source Source) *Event {
	return &Event{
		InvoiceID:   snap.InvoiceIDString(),
		Email:       snap.Owner.Email,
		FirstName:   snap.Owner.FirstName,
		LastName:    snap.Owner.LastName,
		Amount:      snap.Amount,
		ProductName: snap.ProductName,
		BillNo:      snap.BillNo,
		Message:     message,
		Source:      source,
		CreatedAt:   time.Now(),
	}
}

// Payload is the JSON body POSTed to webhook destinations
type Payload struct {
	InvoiceID   string          `json:"invoiceId"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Amount      decimal.Decimal `json:"amount"`
	ProductName string          `json:"productName"`
	BillNo      string          `json:"billNo"`
	Message     string          `json:"message"`
}

// Payload builds the outgoing webhook body
func (e *Event) Payload() Payload {
	return Payload{
		InvoiceID:   e.InvoiceID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		Amount:      e.Amount,
		ProductName: e.ProductName,
		BillNo:      e.BillNo,
		Message:     e.Message,
	}
}

// NewEventFromPayload records a payload received over HTTP
func NewEventFromPayload(p Payload, source Source) *Event {
	return &Event{
		InvoiceID:   p.InvoiceID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Amount:      p.Amount,
		ProductName: p.ProductName,
		BillNo:      p.BillNo,
		Message:     p.Message,
		Source:      source,
		CreatedAt:   time.Now(),
	}
}
