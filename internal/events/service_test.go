package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/pkg/config"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
)

type fakeRepository struct {
	findBySlugFn    func(ctx context.Context, slug string) (*models.Event, error)
	firstUpcomingFn func(ctx context.Context) (*models.Event, error)
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*models.Event, error)
	createFn        func(ctx context.Context, event *models.Event) error
	updateFn        func(ctx context.Context, event *models.Event) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, event *models.Event) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeRepository) Update(ctx context.Context, event *models.Event) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, event)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if f.findBySlugFn != nil {
		return f.findBySlugFn(ctx, slug)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FirstUpcoming(ctx context.Context) (*models.Event, error) {
	if f.firstUpcomingFn != nil {
		return f.firstUpcomingFn(ctx)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context, filters ListFilters) ([]models.Event, error) {
	return nil, nil
}

func (f *fakeRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeRepository) CountByStatus(ctx context.Context, status enums.EventStatus) (int64, error) {
	return 0, nil
}

func TestService_ResolveActivePrefersConfiguredSlug(t *testing.T) {
	configured := &models.Event{ID: uuid.New(), Title: "AI-Verse 4.0", Slug: "ai-verse-4"}
	upcoming := &models.Event{ID: uuid.New(), Title: "Hack Night", Slug: "hack-night"}

	repo := &fakeRepository{
		findBySlugFn: func(ctx context.Context, slug string) (*models.Event, error) {
			if slug == "ai-verse-4" {
				return configured, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		firstUpcomingFn: func(ctx context.Context) (*models.Event, error) {
			return upcoming, nil
		},
	}

	svc, err := NewService(repo, config.EventsConfig{CurrentSlug: "ai-verse-4"})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	got, err := svc.ResolveActive(context.Background())
	if err != nil {
		t.Fatalf("ResolveActive error: %v", err)
	}
	if got.ID != configured.ID {
		t.Fatalf("expected configured event, got %s", got.Slug)
	}
}

func TestService_ResolveActiveFallsBackToUpcoming(t *testing.T) {
	upcoming := &models.Event{ID: uuid.New(), Title: "Hack Night", Slug: "hack-night"}

	repo := &fakeRepository{
		firstUpcomingFn: func(ctx context.Context) (*models.Event, error) {
			return upcoming, nil
		},
	}

	// configured slug points at a missing event
	svc, err := NewService(repo, config.EventsConfig{CurrentSlug: "ai-verse-4"})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	got, err := svc.ResolveActive(context.Background())
	if err != nil {
		t.Fatalf("ResolveActive error: %v", err)
	}
	if got.ID != upcoming.ID {
		t.Fatalf("expected fallback to upcoming event, got %s", got.Slug)
	}
}

func TestService_ResolveActiveNoActiveEvent(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo, config.EventsConfig{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.ResolveActive(context.Background())
	if err == nil {
		t.Fatal("expected no active event error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNoActiveEvent {
		t.Fatalf("expected NO_ACTIVE_EVENT, got %s", pkgerrors.As(err).Code())
	}
}

func TestService_ResolveExplicitEventID(t *testing.T) {
	event := &models.Event{ID: uuid.New(), Title: "Workshop", Slug: "workshop"}
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Event, error) {
			if id == event.ID {
				return event, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc, err := NewService(repo, config.EventsConfig{CurrentSlug: "ignored"})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	got, err := svc.Resolve(context.Background(), &event.ID)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.ID != event.ID {
		t.Fatalf("expected explicit event, got %s", got.Slug)
	}

	missing := uuid.New()
	if _, err := svc.Resolve(context.Background(), &missing); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing explicit event, got %v", err)
	}
}

func TestService_CreateValidation(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo, config.EventsConfig{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	tests := []struct {
		name  string
		input CreateEventInput
	}{
		{name: "missing title", input: CreateEventInput{Slug: "x", Date: time.Now()}},
		{name: "missing slug", input: CreateEventInput{Title: "x", Date: time.Now()}},
		{name: "missing date", input: CreateEventInput{Title: "x", Slug: "x"}},
		{name: "negative fee", input: CreateEventInput{Title: "x", Slug: "x", Date: time.Now(), RegistrationFee: decimal.NewFromInt(-1)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestService_CreateNormalizesSlug(t *testing.T) {
	repo := &fakeRepository{}
	var created *models.Event
	repo.createFn = func(ctx context.Context, event *models.Event) error {
		created = event
		return nil
	}

	svc, err := NewService(repo, config.EventsConfig{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if _, err := svc.Create(context.Background(), CreateEventInput{
		Title: "AI-Verse 4.0",
		Slug:  "  AI-Verse-4  ",
		Date:  time.Now(),
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.Slug != "ai-verse-4" {
		t.Fatalf("expected normalized slug, got %q", created.Slug)
	}
}
