package invoice

import (
	"context"

	"github.com/purchase-invoice/backend/internal/domain/catalog"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
)

// TransactionScope runs a unit of work atomically. If fn returns an
// error the transaction is rolled back, otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to the current transaction
type TransactionalRepositories interface {
	Invoices() invoice.Ledger
	Products() ProductFinder
}

// ProductFinder resolves the product an invoice is raised against
type ProductFinder interface {
	FindByName(ctx context.Context, name string) (*catalog.Product, error)
}
