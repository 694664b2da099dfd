package models

import (
	"time"

	"github.com/purchase-invoice/backend/internal/domain/notification"
	"github.com/shopspring/decimal"
)

// NotificationEventModel is the append-only audit row for notifications
type NotificationEventModel struct {
	ID          int64               `gorm:"primaryKey;autoIncrement"`
	InvoiceID   string              `gorm:"type:varchar(50);not null;index"`
	Email       string              `gorm:"type:varchar(200);not null"`
	FirstName   string              `gorm:"type:varchar(100);not null"`
	LastName    string              `gorm:"type:varchar(100);not null"`
	Amount      decimal.Decimal     `gorm:"type:numeric(18,2);not null"`
	ProductName string              `gorm:"type:varchar(200);not null"`
	BillNo      string              `gorm:"type:varchar(100);not null"`
	Message     string              `gorm:"type:text;not null"`
	Source      notification.Source `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (NotificationEventModel) TableName() string {
	return "notification_events"
}

// ToDomain converts the persistence model to a domain notification record.
func (m *NotificationEventModel) ToDomain() notification.Event {
	return notification.Event{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Amount:      m.Amount,
		ProductName: m.ProductName,
		BillNo:      m.BillNo,
		Message:     m.Message,
		Source:      m.Source,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain notification record.
func (m *NotificationEventModel) FromDomain(e *notification.Event) {
	m.ID = e.ID
	m.InvoiceID = e.InvoiceID
	m.Email = e.Email
	m.FirstName = e.FirstName
	m.LastName = e.LastName
	m.Amount = e.Amount
	m.ProductName = e.ProductName
	m.BillNo = e.BillNo
	m.Message = e.Message
	m.Source = e.Source
	m.CreatedAt = e.CreatedAt
}
