package notification

import (
	"time"

	"github.com/purchase-invoice/backend/internal/domain/notification"
	"github.com/shopspring/decimal"
)

// WebhookPayload is the body accepted by the mock webhook receiver. It
// mirrors what the dispatcher POSTs.
type WebhookPayload struct {
	InvoiceID   string          `json:"invoiceId" binding:"required,max=50"`
	FirstName   string          `json:"firstName" binding:"max=100"`
	LastName    string          `json:"lastName" binding:"max=100"`
	Email       string          `json:"email" binding:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	ProductName string          `json:"productName" binding:"max=200"`
	BillNo      string          `json:"billNo" binding:"max=100"`
	Message     string          `json:"message" binding:"required"`
}

func (p WebhookPayload) toDomain() notification.Payload {
	return notification.Payload{
		InvoiceID:   p.InvoiceID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Amount:      p.Amount,
		ProductName: p.ProductName,
		BillNo:      p.BillNo,
		Message:     p.Message,
	}
}

// NotificationResponse is a recorded notification
type NotificationResponse struct {
	ID          int64           `json:"id"`
	InvoiceID   string          `json:"invoiceId"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Amount      decimal.Decimal `json:"amount"`
	ProductName string          `json:"productName"`
	BillNo      string          `json:"billNo"`
	Message     string          `json:"message"`
	Source      string          `json:"source"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToNotificationResponse projects a record
func ToNotificationResponse(e *notification.Event) NotificationResponse {
	return NotificationResponse{
		ID:          e.ID,
		InvoiceID:   e.InvoiceID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		Amount:      e.Amount,
		ProductName: e.ProductName,
		BillNo:      e.BillNo,
		Message:     e.Message,
		Source:      string(e.Source),
		CreatedAt:   e.CreatedAt,
	}
}
