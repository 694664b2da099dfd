//go:build integration

package invoice_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	appinvoice "github.com/purchase-invoice/backend/internal/application/invoice"
	"github.com/purchase-invoice/backend/internal/domain/catalog"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/purchase-invoice/backend/internal/infrastructure/migration"
	"github.com/purchase-invoice/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newPostgresDB starts a throwaway PostgreSQL, applies the versioned
// migrations and returns a gorm handle to it
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("invoices_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	t.Cleanup(func() { _ = sqlDB.Close() })

	path, err := migration.FindMigrationsPath(".")
	require.NoError(t, err)
	m, err := migration.New(sqlDB, path, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestLifecycle_Postgres_ConcurrentSubmissionsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)

	product, err := catalog.NewProduct("Laptop", decimal.RequireFromString("999.99"), "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(db).Save(ctx, product))

	// Each instance has its own in-process lock, so only the advisory
	// transaction lock keeps the owner's total consistent.
	newInstance := func() *appinvoice.Service {
		return appinvoice.NewService(
			persistence.NewGormTransactionScope(db),
			persistence.NewGormInvoiceRepository(db),
			invoice.NewApprovalPolicy(decimal.NewFromInt(200)),
		)
	}
	instances := []*appinvoice.Service{newInstance(), newInstance(), newInstance()}

	const submissions = 12
	var wg sync.WaitGroup
	errs := make(chan error, submissions)
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc := instances[i%len(instances)]
			_, err := svc.CreateInvoice(ctx, submit(owner, 60, fmt.Sprintf("PG-%02d", i)), owner)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	approved, err := persistence.NewGormInvoiceRepository(db).FindByStatusAndOwner(ctx, invoice.StatusApproved, owner.Email)
	require.NoError(t, err)
	assert.Len(t, approved, 3)

	total, err := persistence.NewGormInvoiceRepository(db).SumApprovedAmount(ctx, owner.Email)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(180)), "approved total %s", total)
}

func TestLifecycle_Postgres_ApprovedBillNoIndex(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)

	product, err := catalog.NewProduct("Laptop", decimal.RequireFromString("1"), "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(db).Save(ctx, product))

	ledger := persistence.NewGormInvoiceRepository(db)
	first, err := invoice.NewInvoice(owner, product.ID, product.Name, decimal.NewFromInt(5), "DUP-1", invoice.StatusApproved)
	require.NoError(t, err)
	require.NoError(t, ledger.Save(ctx, first))

	rejected, err := invoice.NewInvoice(other, product.ID, product.Name, decimal.NewFromInt(5), "DUP-1", invoice.StatusRejected)
	require.NoError(t, err)
	require.NoError(t, ledger.Save(ctx, rejected))

	second, err := invoice.NewInvoice(other, product.ID, product.Name, decimal.NewFromInt(5), "DUP-1", invoice.StatusApproved)
	require.NoError(t, err)
	err = ledger.Save(ctx, second)
	assert.ErrorIs(t, err, invoice.ErrDuplicateBillNo)

	stranger := identity.NewIdentity("carol@example.com", "Carol", "White", identity.RoleFinanceSpecialist)
	svc := appinvoice.NewService(persistence.NewGormTransactionScope(db), ledger, invoice.NewApprovalPolicy(decimal.NewFromInt(100)))
	_, err = svc.CancelInvoice(ctx, rejected.ID, stranger)
	assert.ErrorIs(t, err, invoice.ErrNotOwner)
}
