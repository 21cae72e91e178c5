package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/pkg/config"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
)

// Service defines event catalogue operations plus active-event resolution.
type Service interface {
	Create(ctx context.Context, input CreateEventInput) (*models.Event, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*models.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
	List(ctx context.Context, filters ListFilters) ([]models.Event, error)
	ResolveActive(ctx context.Context) (*models.Event, error)
	Resolve(ctx context.Context, eventID *uuid.UUID) (*models.Event, error)
}

type service struct {
	repo        Repository
	currentSlug string
}

// CreateEventInput carries the fields required to publish a new event.
type CreateEventInput struct {
	Title            string          `json:"title" validate:"required"`
	Slug             string          `json:"slug" validate:"required"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description"`
	Date             time.Time       `json:"date" validate:"required"`
	EndDate          *time.Time      `json:"end_date"`
	Venue            string          `json:"venue"`
	RegistrationFee  decimal.Decimal `json:"registration_fee"`
	MaxParticipants  *int            `json:"max_participants"`
	IsFeatured       bool            `json:"is_featured"`
	CoverImageURL    *string         `json:"cover_image_url"`
}

// UpdateEventInput applies partial updates; nil fields are left untouched.
type UpdateEventInput struct {
	Title            *string            `json:"title"`
	Description      *string            `json:"description"`
	ShortDescription *string            `json:"short_description"`
	Date             *time.Time         `json:"date"`
	EndDate          *time.Time         `json:"end_date"`
	Venue            *string            `json:"venue"`
	RegistrationFee  *decimal.Decimal   `json:"registration_fee"`
	MaxParticipants  *int               `json:"max_participants"`
	Status           *enums.EventStatus `json:"status"`
	IsFeatured       *bool              `json:"is_featured"`
	CoverImageURL    *string            `json:"cover_image_url"`
}

// NewService wires an event service. cfg supplies the configured current
// event slug the resolver prefers.
func NewService(repo Repository, cfg config.EventsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	return &service{repo: repo, currentSlug: strings.TrimSpace(cfg.CurrentSlug)}, nil
}

func (s *service) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if input.RegistrationFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registration fee cannot be negative")
	}

	event := &models.Event{
		Title:            title,
		Slug:             slug,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Date:             input.Date,
		EndDate:          input.EndDate,
		Venue:            input.Venue,
		RegistrationFee:  input.RegistrationFee,
		MaxParticipants:  input.MaxParticipants,
		Status:           enums.EventStatusUpcoming,
		IsFeatured:       input.IsFeatured,
		CoverImageURL:    input.CoverImageURL,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	return event, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*models.Event, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id is required")
	}

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		event.Title = title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.ShortDescription != nil {
		event.ShortDescription = *input.ShortDescription
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.EndDate != nil {
		event.EndDate = input.EndDate
	}
	if input.Venue != nil {
		event.Venue = *input.Venue
	}
	if input.RegistrationFee != nil {
		if input.RegistrationFee.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "registration fee cannot be negative")
		}
		event.RegistrationFee = *input.RegistrationFee
	}
	if input.MaxParticipants != nil {
		event.MaxParticipants = input.MaxParticipants
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid event status %q", *input.Status))
		}
		event.Status = *input.Status
	}
	if input.IsFeatured != nil {
		event.IsFeatured = *input.IsFeatured
	}
	if input.CoverImageURL != nil {
		event.CoverImageURL = input.CoverImageURL
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event")
	}
	return event, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id is required")
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return event, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	event, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return event, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Event, error) {
	list, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	return list, nil
}

// ResolveActive picks the event registrations fall back to when a request
// does not name one. The configured slug wins; otherwise the soonest
// upcoming event is used. A missing configured slug is not an error as long
// as an upcoming event exists.
func (s *service) ResolveActive(ctx context.Context) (*models.Event, error) {
	if s.currentSlug != "" {
		event, err := s.repo.FindBySlug(ctx, s.currentSlug)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load configured event")
		}
	}

	event, err := s.repo.FirstUpcoming(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNoActiveEvent, "no active event found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upcoming event")
	}
	return event, nil
}

// Resolve loads the explicitly requested event, or falls back to the active
// one when eventID is nil.
func (s *service) Resolve(ctx context.Context, eventID *uuid.UUID) (*models.Event, error) {
	if eventID != nil && *eventID != uuid.Nil {
		return s.GetByID(ctx, *eventID)
	}
	return s.ResolveActive(ctx)
}
