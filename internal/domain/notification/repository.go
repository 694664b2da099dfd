package notification

import "context"

// Repository appends and lists notification records
type Repository interface {
	// Save appends a record and assigns its ID
	Save(ctx context.Context, event *Event) error

	// FindAll lists records newest first; source filters when non-empty
	FindAll(ctx context.Context, source Source) ([]Event, error)
}
