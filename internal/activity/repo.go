package activity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
)

// Repository manages persistence for activity records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.Activity) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.Activity, error)
	ListRecent(ctx context.Context, limit int) ([]models.Activity, error)
	CountByType(ctx context.Context, activityType enums.ActivityType) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an activity repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.Activity) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.Activity, error) {
	var records []models.Activity
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.Activity, error) {
	var records []models.Activity
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) CountByType(ctx context.Context, activityType enums.ActivityType) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("type = ?", activityType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
