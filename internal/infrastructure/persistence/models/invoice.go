package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Invoices keep a numeric identity; the partial unique index rejects a
// second APPROVED invoice with the same bill number.
type InvoiceModel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	BillNo         string          `gorm:"type:varchar(100);not null;index:idx_invoices_bill_no;uniqueIndex:idx_invoices_approved_bill_no,where:status = 'APPROVED'"`
	Status         invoice.Status  `gorm:"type:varchar(20);not null;index:idx_invoices_status_owner,priority:1"`
	OwnerEmail     string          `gorm:"type:varchar(200);not null;index:idx_invoices_status_owner,priority:2"`
	OwnerFirstName string          `gorm:"type:varchar(100);not null"`
	OwnerLastName  string          `gorm:"type:varchar(100);not null"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
	Version        int             `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	return &invoice.Invoice{
		ID:          m.ID,
		Amount:      m.Amount,
		BillNo:      m.BillNo,
		Status:      m.Status,
		Owner:       identity.NewIdentity(m.OwnerEmail, m.OwnerFirstName, m.OwnerLastName, ""),
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Version:     m.Version,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *invoice.Invoice) {
	m.ID = inv.ID
	m.Amount = inv.Amount
	m.BillNo = inv.BillNo
	m.Status = inv.Status
	m.OwnerEmail = inv.Owner.Email
	m.OwnerFirstName = inv.Owner.FirstName
	m.OwnerLastName = inv.Owner.LastName
	m.ProductID = inv.ProductID
	m.ProductName = inv.ProductName
	m.CreatedAt = inv.CreatedAt
	m.UpdatedAt = inv.UpdatedAt
	m.Version = inv.Version
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
