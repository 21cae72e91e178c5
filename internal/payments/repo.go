package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
)

// Repository manages persistence for payment records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ExistsForUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	List(ctx context.Context, filters ListFilters) ([]models.Payment, error)
	CountByStatus(ctx context.Context, status enums.PaymentStatus) (int64, error)
	SumAmountByStatus(ctx context.Context, status enums.PaymentStatus) (decimal.Decimal, error)
}

// ListFilters narrows payment listings.
type ListFilters struct {
	Status *enums.PaymentStatus
	UserID *uuid.UUID
	Limit  int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) Update(ctx context.Context, payment *models.Payment) error {
	if payment == nil {
		return gorm.ErrInvalidData
	}
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) ExistsForUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Payment, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{})
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.UserID != nil {
		q = q.Where("user_id = ?", *filters.UserID)
	}
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}

	var list []models.Payment
	if err := q.Order("submitted_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) CountByStatus(ctx context.Context, status enums.PaymentStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) SumAmountByStatus(ctx context.Context, status enums.PaymentStatus) (decimal.Decimal, error) {
	var raw *string
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ?", status).
		Select("CAST(COALESCE(SUM(amount), 0) AS TEXT)").
		Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	sum, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
