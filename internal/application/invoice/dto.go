package invoice

import (
	"time"

	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// MessageAccepted is returned with an approved invoice
const MessageAccepted = "Invoice accepted"

// CreateInvoiceRequest is a submission by a purchasing specialist. The
// identity fields must repeat the caller's own.
type CreateInvoiceRequest struct {
	FirstName   string           `json:"firstName" binding:"required,max=100"`
	LastName    string           `json:"lastName" binding:"required,max=100"`
	Email       string           `json:"email" binding:"required,email,max=200"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	ProductName string           `json:"productName" binding:"required,notblank,max=200"`
	BillNo      string           `json:"billNo" binding:"required,notblank,max=100"`
}

// Identity returns the identity the request claims
func (r CreateInvoiceRequest) Identity() identity.Identity {
	return identity.NewIdentity(r.Email, r.FirstName, r.LastName, "")
}

// ListInvoicesFilter narrows the invoice listing; empty fields are ignored
type ListInvoicesFilter struct {
	Status    string `form:"status" binding:"omitempty,oneof=APPROVED REJECTED CANCELLED"`
	Email     string `form:"email"`
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
}

// InvoiceResponse is the projection of an invoice returned to clients
type InvoiceResponse struct {
	ID          int64           `json:"id"`
	Status      invoice.Status  `json:"status"`
	Message     string          `json:"message"`
	Amount      decimal.Decimal `json:"amount"`
	BillNo      string          `json:"billNo"`
	Email       string          `json:"email"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	ProductName string          `json:"productName"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToInvoiceResponse projects an invoice
func ToInvoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          inv.ID,
		Status:      inv.Status,
		Message:     statusMessage(inv.Status),
		Amount:      inv.Amount,
		BillNo:      inv.BillNo,
		Email:       inv.Owner.Email,
		FirstName:   inv.Owner.FirstName,
		LastName:    inv.Owner.LastName,
		ProductName: inv.ProductName,
		CreatedAt:   inv.CreatedAt,
	}
}

// ToInvoiceResponses projects a list of invoices
func ToInvoiceResponses(invoices []invoice.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}

func statusMessage(status invoice.Status) string {
	switch status {
	case invoice.StatusApproved:
		return MessageAccepted
	case invoice.StatusRejected:
		return invoice.MessageRejected
	case invoice.StatusCancelled:
		return invoice.MessageCancelled
	default:
		return ""
	}
}
