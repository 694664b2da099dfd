package persistence

import (
	"context"

	"github.com/purchase-invoice/backend/internal/domain/notification"
	"github.com/purchase-invoice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository stores notification audit records
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save appends a record and assigns its ID
func (r *GormNotificationRepository) Save(ctx context.Context, event *notification.Event) error {
	model := &models.NotificationEventModel{}
	model.FromDomain(event)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	event.ID = model.ID
	return nil
}

// FindAll lists records newest first; an empty source lists every record
func (r *GormNotificationRepository) FindAll(ctx context.Context, source notification.Source) ([]notification.Event, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationEventModel{})
	if source != "" {
		query = query.Where("source = ?", source)
	}

	var rows []models.NotificationEventModel
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]notification.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, nil
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
