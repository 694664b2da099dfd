package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity holds the identity and timestamps of uuid-keyed entities.
// Invoices and notification records use serial ids instead.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventRecorder buffers the events an aggregate raised. The application
// layer drains it once the transaction has committed.
type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) AddDomainEvent(event DomainEvent) {
	r.pending = append(r.pending, event)
}

func (r *EventRecorder) GetDomainEvents() []DomainEvent {
	return r.pending
}

func (r *EventRecorder) ClearDomainEvents() {
	r.pending = nil
}

// BaseAggregateRoot is embedded by products and users. Version starts
// at 1 and is bumped on every successful update.
type BaseAggregateRoot struct {
	BaseEntity
	EventRecorder
	Version int
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Version:    1,
	}
}

func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}
