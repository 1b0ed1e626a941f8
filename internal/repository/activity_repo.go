package repository

import (
	"context"

	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	CreateBatch(ctx context.Context, logs []models.ActivityLog) error
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]models.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) CreateBatch(ctx context.Context, logs []models.ActivityLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}

func (r *activityRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
