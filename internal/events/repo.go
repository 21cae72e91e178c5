package events

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
)

// Repository handles event persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindBySlug(ctx context.Context, slug string) (*models.Event, error)
	FirstUpcoming(ctx context.Context) (*models.Event, error)
	List(ctx context.Context, filters ListFilters) ([]models.Event, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.EventStatus) (int64, error)
}

// ListFilters narrows event listings.
type ListFilters struct {
	Status   *enums.EventStatus
	Featured *bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an event repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) Update(ctx context.Context, event *models.Event) error {
	if event == nil {
		return gorm.ErrInvalidData
	}
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FirstUpcoming returns the soonest event still marked upcoming.
func (r *repository) FirstUpcoming(ctx context.Context) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).
		Where("status = ?", enums.EventStatusUpcoming).
		Order("date ASC").
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Event, error) {
	q := r.db.WithContext(ctx).Model(&models.Event{})
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.Featured != nil {
		q = q.Where("is_featured = ?", *filters.Featured)
	}

	var list []models.Event
	if err := q.Order("date ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Event{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountByStatus(ctx context.Context, status enums.EventStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
