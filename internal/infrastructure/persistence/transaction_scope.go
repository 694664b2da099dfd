package persistence

import (
	"context"

	appinvoice "github.com/purchase-invoice/backend/internal/application/invoice"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinvoice.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Invoices returns the invoice ledger scoped to the current transaction.
func (r *gormTransactionalRepositories) Invoices() invoice.Ledger {
	return NewGormInvoiceRepository(r.tx)
}

// Products returns product lookups scoped to the current transaction.
func (r *gormTransactionalRepositories) Products() appinvoice.ProductFinder {
	return NewGormProductRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinvoice.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinvoice.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
