package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/purchase-invoice/backend/internal/domain/shared"
)

// AggregateModel carries the columns every uuid-keyed aggregate shares.
// Version backs optimistic locking in the repositories.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	*m = AggregateModel{ID: a.ID, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt, Version: a.Version}
}

func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	var root shared.BaseAggregateRoot
	root.ID, root.CreatedAt, root.UpdatedAt = m.ID, m.CreatedAt, m.UpdatedAt
	root.Version = m.Version
	return root
}
