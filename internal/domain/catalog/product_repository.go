package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/purchase-invoice/backend/internal/domain/shared"
)

// ProductRepository persists the product catalog. Lookups return
// shared.ErrNotFound for missing rows; Save fails with
// shared.ErrConcurrencyConflict when the stored version moved on.
// Names are unique; invoices resolve their productName by exact match.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
