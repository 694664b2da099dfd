package persistence

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	appinvoice "github.com/purchase-invoice/backend/internal/application/invoice"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/purchase-invoice/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	jane = identity.NewIdentity("jane@example.com", "Jane", "Doe", identity.RolePurchasingSpecialist)
	john = identity.NewIdentity("john@example.com", "John", "Roe", identity.RolePurchasingSpecialist)
)

func newMockInvoiceRepo(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func saveInvoice(t *testing.T, repo *GormInvoiceRepository, owner identity.Identity, amount, billNo string, status invoice.Status) *invoice.Invoice {
	t.Helper()
	inv, err := invoice.NewInvoice(owner, uuid.New(), "Laptop", decimal.RequireFromString(amount), billNo, status)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), inv))
	return inv
}

func TestGormInvoiceRepository_PostgresStatements(t *testing.T) {
	t.Run("LockOwner takes a transaction advisory lock", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepo(t)
		defer mockDB.Close()

		mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
			WithArgs("jane@example.com").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.LockOwner(context.Background(), "jane@example.com")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FindByIDForUpdate locks the row", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepo(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "amount", "bill_no", "status", "owner_email", "owner_first_name", "owner_last_name", "product_name", "version"}).
			AddRow(7, "60.00", "BILL-1", "REJECTED", "jane@example.com", "Jane", "Doe", "Laptop", 1)
		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1 .*FOR UPDATE`).
			WillReturnRows(rows)

		inv, err := repo.FindByIDForUpdate(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), inv.ID)
		assert.Equal(t, invoice.StatusRejected, inv.Status)
		assert.Equal(t, "jane@example.com", inv.Owner.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SumApprovedAmount scans the aggregate", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepo(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "invoices" WHERE owner_email = \$1 AND status = \$2`).
			WithArgs("jane@example.com", "APPROVED").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("150.50"))

		total, err := repo.SumApprovedAmount(context.Background(), "jane@example.com")
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("150.50")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Save reports a stale version", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepo(t)
		defer mockDB.Close()

		inv, err := invoice.NewInvoice(jane, uuid.New(), "Laptop", decimal.NewFromInt(60), "BILL-1", invoice.StatusRejected)
		require.NoError(t, err)
		inv.ID = 7

		mock.ExpectExec(`UPDATE "invoices" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(context.Background(), inv)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 1, inv.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FindByID maps missing rows to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepo(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), 99)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("Save assigns increasing ids and FindByID round-trips", func(t *testing.T) {
		repo := NewGormInvoiceRepository(newSQLiteDB(t))

		first := saveInvoice(t, repo, jane, "60.00", "BILL-1", invoice.StatusApproved)
		second := saveInvoice(t, repo, jane, "10.25", "BILL-2", invoice.StatusRejected)
		assert.Greater(t, first.ID, int64(0))
		assert.Greater(t, second.ID, first.ID)

		found, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "BILL-2", found.BillNo)
		assert.Equal(t, invoice.StatusRejected, found.Status)
		assert.True(t, found.Amount.Equal(decimal.RequireFromString("10.25")))
		assert.True(t, found.Owner.SamePerson(jane))
		assert.Equal(t, 1, found.Version)
	})

	t.Run("FindByID returns not found", func(t *testing.T) {
		repo := NewGormInvoiceRepository(newSQLiteDB(t))

		_, err := repo.FindByID(ctx, 404)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("SumApprovedAmount counts only the owner's approved invoices", func(t *testing.T) {
		repo := NewGormInvoiceRepository(newSQLiteDB(t))

		total, err := repo.SumApprovedAmount(ctx, jane.Email)
		require.NoError(t, err)
		assert.True(t, total.IsZero())

		saveInvoice(t, repo, jane, "60", "BILL-1", invoice.StatusApproved)
		saveInvoice(t, repo, jane, "90", "BILL-2", invoice.StatusApproved)
		saveInvoice(t, repo, jane, "500", "BILL-3", invoice.StatusRejected)
		saveInvoice(t, repo, john, "70", "BILL-4", invoice.StatusApproved)

		total, err = repo.SumApprovedAmount(ctx, jane.Email)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(150)), "got %s", total)
	})

	t.Run("ExistsApprovedWithBillNo ignores rejected invoices", func(t *testing.T) {
		repo := NewGormInvoiceRepository(newSQLiteDB(t))

		saveInvoice(t, repo, jane, "500", "BILL-R", invoice.StatusRejected)
		saveInvoice(t, repo, john, "10", "BILL-A", invoice.StatusApproved)

		exists, err := repo.ExistsApprovedWithBillNo(ctx, "BILL-R")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsApprovedWithBillNo(ctx, "BILL-A")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("second approved invoice with the same bill number is refused", func(t *testing.T) {
		repo := NewGormInvoiceRepository(newSQLiteDB(t))

		saveInvoice(t, repo, jane, "10", "BILL-1", invoice.StatusApproved)
		saveInvoice(t, repo, john, "500", "BILL-1", invoice.StatusRejected)

		dup, err := invoice.NewInvoice(john, uuid.New(), "Laptop", decimal.NewFromInt(5), "BILL-1", invoice.StatusApproved)
		require.NoError(t, err)
		err = repo.Save(ctx, dup)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, invoice.CodeDuplicateBillNo, domainErr.Code)
	})

	t.Run("filters combine and results are ordered by id", func(t *testing.T) {
		repo := NewGormInvoiceRepository(newSQLiteDB(t))

		a := saveInvoice(t, repo, jane, "10", "BILL-1", invoice.StatusApproved)
		saveInvoice(t, repo, jane, "500", "BILL-2", invoice.StatusRejected)
		c := saveInvoice(t, repo, jane, "20", "BILL-3", invoice.StatusApproved)
		saveInvoice(t, repo, john, "30", "BILL-4", invoice.StatusApproved)

		own, err := repo.FindByStatusAndOwner(ctx, invoice.StatusApproved, jane.Email)
		require.NoError(t, err)
		require.Len(t, own, 2)
		assert.Equal(t, a.ID, own[0].ID)
		assert.Equal(t, c.ID, own[1].ID)

		approved, err := repo.FindByStatus(ctx, invoice.StatusApproved)
		require.NoError(t, err)
		assert.Len(t, approved, 3)

		byName, err := repo.FindAll(ctx, invoice.Filter{FirstName: "John", LastName: "Roe"})
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "BILL-4", byName[0].BillNo)

		all, err := repo.FindAll(ctx, invoice.Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("Save updates status and bumps version", func(t *testing.T) {
		repo := NewGormInvoiceRepository(newSQLiteDB(t))

		inv := saveInvoice(t, repo, jane, "500", "BILL-1", invoice.StatusRejected)
		require.NoError(t, inv.Cancel(jane))
		require.NoError(t, repo.Save(ctx, inv))
		assert.Equal(t, 2, inv.Version)

		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusCancelled, found.Status)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("Save with a stale copy conflicts", func(t *testing.T) {
		repo := NewGormInvoiceRepository(newSQLiteDB(t))

		inv := saveInvoice(t, repo, jane, "500", "BILL-1", invoice.StatusRejected)

		stale, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)

		require.NoError(t, inv.Cancel(jane))
		require.NoError(t, repo.Save(ctx, inv))

		require.NoError(t, stale.Cancel(jane))
		err = repo.Save(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("LockOwner is a no-op", func(t *testing.T) {
		repo := NewGormInvoiceRepository(newSQLiteDB(t))
		assert.NoError(t, repo.LockOwner(ctx, jane.Email))
	})
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db := newSQLiteDB(t)
		scope := NewGormTransactionScope(db)

		var id int64
		err := scope.Execute(ctx, func(repos appinvoice.TransactionalRepositories) error {
			inv, err := invoice.NewInvoice(jane, uuid.New(), "Laptop", decimal.NewFromInt(10), "BILL-1", invoice.StatusApproved)
			if err != nil {
				return err
			}
			if err := repos.Invoices().Save(ctx, inv); err != nil {
				return err
			}
			id = inv.ID
			return nil
		})
		require.NoError(t, err)

		_, err = NewGormInvoiceRepository(db).FindByID(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := newSQLiteDB(t)
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(repos appinvoice.TransactionalRepositories) error {
			inv, err := invoice.NewInvoice(jane, uuid.New(), "Laptop", decimal.NewFromInt(10), "BILL-1", invoice.StatusApproved)
			if err != nil {
				return err
			}
			if err := repos.Invoices().Save(ctx, inv); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		all, err := NewGormInvoiceRepository(db).FindAll(ctx, invoice.Filter{})
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestInvoiceModel_RoundTrip(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	inv := &invoice.Invoice{
		ID:          3,
		Amount:      decimal.RequireFromString("12.50"),
		BillNo:      "BILL-3",
		Status:      invoice.StatusApproved,
		Owner:       jane,
		ProductName: "Laptop",
		CreatedAt:   created,
		UpdatedAt:   created,
		Version:     4,
	}

	back := models.InvoiceModelFromDomain(inv).ToDomain()
	assert.Equal(t, inv.ID, back.ID)
	assert.Equal(t, "BILL-3", back.BillNo)
	assert.Equal(t, identity.Role(""), back.Owner.Role)
	assert.Equal(t, 4, back.Version)
}
