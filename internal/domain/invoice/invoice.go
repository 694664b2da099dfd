package invoice

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type used on invoice events
const AggregateTypeInvoice = "Invoice"

// Invoice is the aggregate root of the lifecycle. ID is assigned by the
// ledger on first save; Owner never changes after creation.
type Invoice struct {
	shared.EventRecorder
	ID          int64
	Amount      decimal.Decimal
	BillNo      string
	Status      Status
	Owner       identity.Identity
	ProductID   uuid.UUID
	ProductName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

// AmountScale is the number of fractional digits an invoice amount keeps
const AmountScale = 2

// NormalizeAmount rounds amount half away from zero to AmountScale digits.
// The approval decision and the ledger both see this value.
func NormalizeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountScale)
}

// NormalizeBillNo strips surrounding whitespace from a bill number
func NormalizeBillNo(billNo string) string {
	return strings.TrimSpace(billNo)
}

// NewInvoice builds an unsaved invoice with an already decided status
func NewInvoice(owner identity.Identity, productID uuid.UUID, productName string, amount decimal.Decimal, billNo string, status Status) (*Invoice, error) {
	billNo = NormalizeBillNo(billNo)
	if billNo == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bill number cannot be empty")
	}
	if len(billNo) > 100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bill number cannot exceed 100 characters")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount cannot be negative")
	}
	if status != StatusApproved && status != StatusRejected {
		return nil, shared.NewDomainError("INVALID_STATE", "New invoices are either APPROVED or REJECTED")
	}

	now := time.Now()
	return &Invoice{
		Amount:      NormalizeAmount(amount),
		BillNo:      billNo,
		Status:      status,
		Owner:       identity.NewIdentity(owner.Email, owner.FirstName, owner.LastName, ""),
		ProductID:   productID,
		ProductName: productName,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}, nil
}

// IsNew reports whether the invoice has not been persisted yet
func (i *Invoice) IsNew() bool {
	return i.ID == 0
}

// IsOwnedBy compares the owner email with the caller's
func (i *Invoice) IsOwnedBy(caller identity.Identity) bool {
	return i.Owner.Email == caller.Email
}

// RecordSubmitted raises the creation event. Call it once the ledger
// has assigned an ID.
func (i *Invoice) RecordSubmitted() {
	switch i.Status {
	case StatusApproved:
		i.AddDomainEvent(NewInvoiceApprovedEvent(i))
	case StatusRejected:
		i.AddDomainEvent(NewInvoiceRejectedEvent(i))
	}
}

// Cancel moves the invoice to CANCELLED on behalf of caller
func (i *Invoice) Cancel(caller identity.Identity) error {
	if !i.IsOwnedBy(caller) {
		return ErrNotOwner
	}

	next, err := Transition(i.Status, EventCancel)
	if err != nil {
		return err
	}

	i.Status = next
	i.UpdatedAt = time.Now()
	i.AddDomainEvent(NewInvoiceCancelledEvent(i))

	return nil
}

// Snapshot copies the fields carried by notifications
func (i *Invoice) Snapshot() Snapshot {
	return Snapshot{
		InvoiceID:   i.ID,
		Owner:       i.Owner,
		Amount:      i.Amount,
		ProductName: i.ProductName,
		BillNo:      i.BillNo,
		Status:      i.Status,
	}
}

// Snapshot is an immutable copy of an invoice at emission time
type Snapshot struct {
	InvoiceID   int64             `json:"invoiceId"`
	Owner       identity.Identity `json:"owner"`
	Amount      decimal.Decimal   `json:"amount"`
	ProductName string            `json:"productName"`
	BillNo      string            `json:"billNo"`
	Status      Status            `json:"status"`
}

// InvoiceIDString returns the id in its textual form
func (s Snapshot) InvoiceIDString() string {
	return strconv.FormatInt(s.InvoiceID, 10)
}
