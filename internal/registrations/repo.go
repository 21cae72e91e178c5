package registrations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
)

// Repository manages persistence for event registrations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, reg *models.Registration) error
	FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.Registration, error)
	Activate(ctx context.Context, userID, eventID uuid.UUID) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error)
	CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a registrations repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, reg *models.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *repository) FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// Activate flips is_active back on. A missing row is not an error; approval
// of a payment with no surviving registration must not fail.
func (r *repository) Activate(ctx context.Context, userID, eventID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		UpdateColumn("is_active", true).Error
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error) {
	var regs []models.Registration
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at DESC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	var regs []models.Registration
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *repository) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND is_active = ?", eventID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Registration{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
