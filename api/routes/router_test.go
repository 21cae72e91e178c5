package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/internal/activity"
	"github.com/aiverse-events/aiverse-backend/internal/analytics"
	"github.com/aiverse-events/aiverse-backend/internal/events"
	"github.com/aiverse-events/aiverse-backend/internal/payments"
	"github.com/aiverse-events/aiverse-backend/internal/users"
	"github.com/aiverse-events/aiverse-backend/pkg/config"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubUserService struct{}

func (stubUserService) Signup(context.Context, users.SignupInput) (*models.User, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubUserService) Login(context.Context, users.LoginInput) (*users.LoginResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubUserService) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubUserService) GetOrCreateByEmail(context.Context, *gorm.DB, users.ProfileInput) (*models.User, bool, error) {
	return nil, false, fmt.Errorf("not implemented")
}

type stubEventService struct{}

func (stubEventService) Create(context.Context, events.CreateEventInput) (*models.Event, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubEventService) Update(context.Context, uuid.UUID, events.UpdateEventInput) (*models.Event, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubEventService) GetByID(context.Context, uuid.UUID) (*models.Event, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubEventService) GetBySlug(context.Context, string) (*models.Event, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubEventService) List(context.Context, events.ListFilters) ([]models.Event, error) {
	return []models.Event{}, nil
}

func (stubEventService) ResolveActive(context.Context) (*models.Event, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubEventService) Resolve(context.Context, *uuid.UUID) (*models.Event, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubRegistrationService struct{}

func (stubRegistrationService) Register(context.Context, *models.User, *models.Event) (*models.Registration, bool, error) {
	return nil, false, fmt.Errorf("not implemented")
}

func (stubRegistrationService) Activate(context.Context, *gorm.DB, uuid.UUID, uuid.UUID) error {
	return fmt.Errorf("not implemented")
}

func (stubRegistrationService) ListByEvent(context.Context, uuid.UUID) ([]models.Registration, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubRegistrationService) ListByUser(context.Context, uuid.UUID) ([]models.Registration, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubRegistrationService) CountActiveByEvent(context.Context, uuid.UUID) (int64, error) {
	return 0, fmt.Errorf("not implemented")
}

type stubPaymentService struct{}

func (stubPaymentService) Submit(context.Context, payments.SubmitInput) (*models.Payment, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubPaymentService) Transition(context.Context, payments.TransitionInput) (*models.Payment, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubPaymentService) GetByID(context.Context, uuid.UUID) (*models.Payment, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubPaymentService) List(context.Context, payments.ListFilters) ([]models.Payment, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubActivityService struct{}

func (stubActivityService) Record(context.Context, *gorm.DB, activity.RecordInput) (*models.Activity, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubActivityService) ListByUser(context.Context, uuid.UUID, int) ([]models.Activity, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubActivityService) ListRecent(context.Context, int) ([]models.Activity, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubAnalyticsService struct{}

func (stubAnalyticsService) Dashboard(context.Context) (*analytics.DashboardReport, error) {
	return nil, fmt.Errorf("not implemented")
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "secret", Issuer: "aiverse", ExpirationMinutes: 60}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		prometheus.NewRegistry(),
		stubUserService{},
		stubEventService{},
		stubRegistrationService{},
		stubPaymentService{},
		stubActivityService{},
		stubAnalyticsService{},
	)
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouterServesMetrics(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterPublicEventListing(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterAdminRoutesRequireAuth(t *testing.T) {
	router := testRouter(t)

	paths := []string{
		"/api/v1/payments",
		"/api/v1/activity",
		"/api/v1/analytics/dashboard",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}
