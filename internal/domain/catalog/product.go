package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents an item invoices can be raised against.
// Name is the unique business key.
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Price       decimal.Decimal
	Description string
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal, description string) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price.Round(2),
		Description:       description,
	}, nil
}

// Update replaces the product's mutable fields
func (p *Product) Update(name string, price decimal.Decimal, description string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}

	p.Name = name
	p.Price = price.Round(2)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	return nil
}

// CodeProductNameExists is returned when a product name is already taken
const CodeProductNameExists = "PRODUCT_ALREADY_EXISTS"

// CodeProductInUse is returned when invoices still reference a product
const CodeProductInUse = "PRODUCT_IN_USE"

// NewProductInUseError reports a product that cannot be deleted
func NewProductInUseError(id uuid.UUID) *shared.DomainError {
	return shared.Errorf(CodeProductInUse, "Product %s is referenced by invoices", id)
}

// NewProductNameExistsError reports a duplicate product name
func NewProductNameExistsError(name string) *shared.DomainError {
	return shared.NewDomainError(CodeProductNameExists, "Product name already exists: "+name)
}
