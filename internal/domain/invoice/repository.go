package invoice

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger owns the invoice collection. Inside a transaction scope all
// reads see the transaction's snapshot.
type Ledger interface {
	// SumApprovedAmount totals the owner's APPROVED invoices; zero when none
	SumApprovedAmount(ctx context.Context, ownerEmail string) (decimal.Decimal, error)

	// ExistsApprovedWithBillNo reports whether an APPROVED invoice uses billNo
	ExistsApprovedWithBillNo(ctx context.Context, billNo string) (bool, error)

	// FindByID returns shared.ErrNotFound when the id is unknown
	FindByID(ctx context.Context, id int64) (*Invoice, error)

	// FindByIDForUpdate is FindByID holding a row lock until commit
	FindByIDForUpdate(ctx context.Context, id int64) (*Invoice, error)

	// FindByStatus lists invoices in status, ordered by id
	FindByStatus(ctx context.Context, status Status) ([]Invoice, error)

	// FindByStatusAndOwner lists the owner's invoices in status, ordered by id
	FindByStatusAndOwner(ctx context.Context, status Status, ownerEmail string) ([]Invoice, error)

	// FindAll lists invoices matching every non-empty filter field
	FindAll(ctx context.Context, filter Filter) ([]Invoice, error)

	// Save inserts a new invoice (assigning ID) or updates an existing one.
	// Updates fail with shared.ErrConcurrencyConflict on a stale Version.
	Save(ctx context.Context, inv *Invoice) error

	// LockOwner serializes writers for one owner until the transaction ends
	LockOwner(ctx context.Context, ownerEmail string) error
}

// Filter narrows FindAll; empty fields are ignored
type Filter struct {
	Status    Status
	Email     string
	FirstName string
	LastName  string
}
