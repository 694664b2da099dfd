package invoice

import "github.com/purchase-invoice/backend/internal/domain/shared"

// Error codes raised by the invoice lifecycle
const (
	CodeOwnershipViolation = "OWNERSHIP_VIOLATION"
	CodeDuplicateBillNo    = "DUPLICATE_BILL_NO"
	CodeProductNotFound    = "PRODUCT_NOT_FOUND"
	CodeInvoiceNotFound    = "INVOICE_NOT_FOUND"
	CodeCannotBeCancelled  = "INVOICE_CANNOT_BE_CANCELLED"
)

// Sentinels for errors.Is; the constructors below add context to the message.
var (
	ErrOwnershipViolation = shared.NewDomainError(CodeOwnershipViolation, "Invoice can only be created with your own identity information")
	ErrNotOwner           = shared.NewDomainError(CodeOwnershipViolation, "You can only cancel your own invoices")
	ErrDuplicateBillNo    = shared.NewDomainError(CodeDuplicateBillNo, "Invoice with bill number already exists")
	ErrProductNotFound    = shared.NewDomainError(CodeProductNotFound, "Product not found")
	ErrInvoiceNotFound    = shared.NewDomainError(CodeInvoiceNotFound, "Invoice not found")
	ErrCannotBeCancelled  = shared.NewDomainError(CodeCannotBeCancelled, "Invoice cannot be cancelled")
)

// NewDuplicateBillNoError names the conflicting bill number
func NewDuplicateBillNoError(billNo string) *shared.DomainError {
	return shared.NewDomainError(CodeDuplicateBillNo, "Invoice with bill number already exists: "+billNo)
}

// NewProductNotFoundError names the missing product
func NewProductNotFoundError(name string) *shared.DomainError {
	return shared.NewDomainError(CodeProductNotFound, "Product not found with name: "+name)
}

// NewInvoiceNotFoundError names the missing invoice
func NewInvoiceNotFoundError(id int64) *shared.DomainError {
	return shared.Errorf(CodeInvoiceNotFound, "Invoice not found with id: %d", id)
}

// NewCannotBeCancelledError names the blocking status
func NewCannotBeCancelledError(status Status) *shared.DomainError {
	return shared.NewDomainError(CodeCannotBeCancelled, "Invoice cannot be cancelled in status: "+string(status))
}
