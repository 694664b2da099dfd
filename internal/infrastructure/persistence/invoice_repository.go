package persistence

import (
	"context"
	"errors"

	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/purchase-invoice/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements invoice.Ledger using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// SumApprovedAmount totals the owner's APPROVED invoices
func (r *GormInvoiceRepository) SumApprovedAmount(ctx context.Context, ownerEmail string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_email = ? AND status = ?", ownerEmail, invoice.StatusApproved).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// ExistsApprovedWithBillNo reports whether an APPROVED invoice already uses billNo
func (r *GormInvoiceRepository) ExistsApprovedWithBillNo(ctx context.Context, billNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("bill_no = ? AND status = ?", billNo, invoice.StatusApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id int64) (*invoice.Invoice, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds an invoice and locks its row until the
// surrounding transaction ends. SQLite has no row locks; its single
// writer connection already serializes the transaction.
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id int64) (*invoice.Invoice, error) {
	query := r.db.WithContext(ctx)
	if IsPostgres(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.findByID(query, id)
}

func (r *GormInvoiceRepository) findByID(query *gorm.DB, id int64) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus lists invoices in a status
func (r *GormInvoiceRepository) FindByStatus(ctx context.Context, status invoice.Status) ([]invoice.Invoice, error) {
	return r.FindAll(ctx, invoice.Filter{Status: status})
}

// FindByStatusAndOwner lists an owner's invoices in a status
func (r *GormInvoiceRepository) FindByStatusAndOwner(ctx context.Context, status invoice.Status, ownerEmail string) ([]invoice.Invoice, error) {
	return r.FindAll(ctx, invoice.Filter{Status: status, Email: ownerEmail})
}

// FindAll lists invoices matching every non-empty filter field, ordered by id
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter invoice.Filter) ([]invoice.Invoice, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter)

	var rows []models.InvoiceModel
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	invoices := make([]invoice.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// Save inserts a new invoice or updates status of an existing one under
// optimistic locking
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	if inv.IsNew() {
		model := models.InvoiceModelFromDomain(inv)
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return invoice.NewDuplicateBillNoError(inv.BillNo)
			}
			return err
		}
		inv.ID = model.ID
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", inv.ID, inv.Version).
		Updates(map[string]any{
			"status":     inv.Status,
			"updated_at": inv.UpdatedAt,
			"version":    inv.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	inv.Version++
	return nil
}

// LockOwner takes a transaction-scoped advisory lock on the owner's email.
// It must run inside a transaction; the lock is released on commit or
// rollback. On SQLite it is a no-op.
func (r *GormInvoiceRepository) LockOwner(ctx context.Context, ownerEmail string) error {
	if !IsPostgres(r.db) {
		return nil
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", ownerEmail).Error
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoice.Filter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Email != "" {
		query = query.Where("owner_email = ?", filter.Email)
	}
	if filter.FirstName != "" {
		query = query.Where("owner_first_name = ?", filter.FirstName)
	}
	if filter.LastName != "" {
		query = query.Where("owner_last_name = ?", filter.LastName)
	}
	return query
}

// Ensure GormInvoiceRepository implements invoice.Ledger
var _ invoice.Ledger = (*GormInvoiceRepository)(nil)
