package persistence

import (
	"context"

	"github.com/agencia/backend/internal/domain/notification"
	"github.com/agencia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// ListByUser lists a user's notifications, newest first
func (r *GormNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]notification.Record, error) {
	query := dbFor(ctx, r.db).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	var recordModels []models.NotificationModel
	if err := query.Order("created_at DESC").Find(&recordModels).Error; err != nil {
		return nil, err
	}
	result := make([]notification.Record, len(recordModels))
	for i := range recordModels {
		result[i] = *recordModels[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a notification record
func (r *GormNotificationRepository) Save(ctx context.Context, record *notification.Record) error {
	var model models.NotificationModel
	model.FromDomain(record)
	return dbFor(ctx, r.db).Save(&model).Error
}
