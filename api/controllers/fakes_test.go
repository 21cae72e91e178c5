package controllers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/internal/activity"
	"github.com/aiverse-events/aiverse-backend/internal/analytics"
	"github.com/aiverse-events/aiverse-backend/internal/events"
	"github.com/aiverse-events/aiverse-backend/internal/payments"
	"github.com/aiverse-events/aiverse-backend/internal/users"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
)

var errNotStubbed = fmt.Errorf("not stubbed")

type fakeUserService struct {
	signupFn          func(context.Context, users.SignupInput) (*models.User, error)
	loginFn           func(context.Context, users.LoginInput) (*users.LoginResult, error)
	getByIDFn         func(context.Context, uuid.UUID) (*models.User, error)
	getOrCreateFn     func(context.Context, *gorm.DB, users.ProfileInput) (*models.User, bool, error)
	getOrCreateCalled bool
}

func (f *fakeUserService) Signup(ctx context.Context, input users.SignupInput) (*models.User, error) {
	if f.signupFn == nil {
		return nil, errNotStubbed
	}
	return f.signupFn(ctx, input)
}

func (f *fakeUserService) Login(ctx context.Context, input users.LoginInput) (*users.LoginResult, error) {
	if f.loginFn == nil {
		return nil, errNotStubbed
	}
	return f.loginFn(ctx, input)
}

func (f *fakeUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.getByIDFn == nil {
		return nil, errNotStubbed
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserService) GetOrCreateByEmail(ctx context.Context, tx *gorm.DB, input users.ProfileInput) (*models.User, bool, error) {
	f.getOrCreateCalled = true
	if f.getOrCreateFn == nil {
		return nil, false, errNotStubbed
	}
	return f.getOrCreateFn(ctx, tx, input)
}

type fakeEventService struct {
	createFn        func(context.Context, events.CreateEventInput) (*models.Event, error)
	updateFn        func(context.Context, uuid.UUID, events.UpdateEventInput) (*models.Event, error)
	getByIDFn       func(context.Context, uuid.UUID) (*models.Event, error)
	getBySlugFn     func(context.Context, string) (*models.Event, error)
	listFn          func(context.Context, events.ListFilters) ([]models.Event, error)
	resolveActiveFn func(context.Context) (*models.Event, error)
	resolveFn       func(context.Context, *uuid.UUID) (*models.Event, error)
}

func (f *fakeEventService) Create(ctx context.Context, input events.CreateEventInput) (*models.Event, error) {
	if f.createFn == nil {
		return nil, errNotStubbed
	}
	return f.createFn(ctx, input)
}

func (f *fakeEventService) Update(ctx context.Context, id uuid.UUID, input events.UpdateEventInput) (*models.Event, error) {
	if f.updateFn == nil {
		return nil, errNotStubbed
	}
	return f.updateFn(ctx, id, input)
}

func (f *fakeEventService) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if f.getByIDFn == nil {
		return nil, errNotStubbed
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeEventService) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if f.getBySlugFn == nil {
		return nil, errNotStubbed
	}
	return f.getBySlugFn(ctx, slug)
}

func (f *fakeEventService) List(ctx context.Context, filters events.ListFilters) ([]models.Event, error) {
	if f.listFn == nil {
		return nil, errNotStubbed
	}
	return f.listFn(ctx, filters)
}

func (f *fakeEventService) ResolveActive(ctx context.Context) (*models.Event, error) {
	if f.resolveActiveFn == nil {
		return nil, errNotStubbed
	}
	return f.resolveActiveFn(ctx)
}

func (f *fakeEventService) Resolve(ctx context.Context, id *uuid.UUID) (*models.Event, error) {
	if f.resolveFn == nil {
		return nil, errNotStubbed
	}
	return f.resolveFn(ctx, id)
}

type fakeRegistrationService struct {
	registerFn           func(context.Context, *models.User, *models.Event) (*models.Registration, bool, error)
	listByEventFn        func(context.Context, uuid.UUID) ([]models.Registration, error)
	countActiveByEventFn func(context.Context, uuid.UUID) (int64, error)
}

func (f *fakeRegistrationService) Register(ctx context.Context, user *models.User, event *models.Event) (*models.Registration, bool, error) {
	if f.registerFn == nil {
		return nil, false, errNotStubbed
	}
	return f.registerFn(ctx, user, event)
}

func (f *fakeRegistrationService) Activate(context.Context, *gorm.DB, uuid.UUID, uuid.UUID) error {
	return errNotStubbed
}

func (f *fakeRegistrationService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error) {
	if f.listByEventFn == nil {
		return nil, errNotStubbed
	}
	return f.listByEventFn(ctx, eventID)
}

func (f *fakeRegistrationService) ListByUser(context.Context, uuid.UUID) ([]models.Registration, error) {
	return nil, errNotStubbed
}

func (f *fakeRegistrationService) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	if f.countActiveByEventFn == nil {
		return 0, errNotStubbed
	}
	return f.countActiveByEventFn(ctx, eventID)
}

type fakePaymentService struct {
	submitFn     func(context.Context, payments.SubmitInput) (*models.Payment, error)
	transitionFn func(context.Context, payments.TransitionInput) (*models.Payment, error)
	getByIDFn    func(context.Context, uuid.UUID) (*models.Payment, error)
	listFn       func(context.Context, payments.ListFilters) ([]models.Payment, error)
}

func (f *fakePaymentService) Submit(ctx context.Context, input payments.SubmitInput) (*models.Payment, error) {
	if f.submitFn == nil {
		return nil, errNotStubbed
	}
	return f.submitFn(ctx, input)
}

func (f *fakePaymentService) Transition(ctx context.Context, input payments.TransitionInput) (*models.Payment, error) {
	if f.transitionFn == nil {
		return nil, errNotStubbed
	}
	return f.transitionFn(ctx, input)
}

func (f *fakePaymentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	if f.getByIDFn == nil {
		return nil, errNotStubbed
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakePaymentService) List(ctx context.Context, filters payments.ListFilters) ([]models.Payment, error) {
	if f.listFn == nil {
		return nil, errNotStubbed
	}
	return f.listFn(ctx, filters)
}

type fakeActivityService struct {
	listByUserFn func(context.Context, uuid.UUID, int) ([]models.Activity, error)
	listRecentFn func(context.Context, int) ([]models.Activity, error)
}

func (f *fakeActivityService) Record(context.Context, *gorm.DB, activity.RecordInput) (*models.Activity, error) {
	return nil, errNotStubbed
}

func (f *fakeActivityService) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Activity, error) {
	if f.listByUserFn == nil {
		return nil, errNotStubbed
	}
	return f.listByUserFn(ctx, userID, limit)
}

func (f *fakeActivityService) ListRecent(ctx context.Context, limit int) ([]models.Activity, error) {
	if f.listRecentFn == nil {
		return nil, errNotStubbed
	}
	return f.listRecentFn(ctx, limit)
}

type fakeAnalyticsService struct {
	dashboardFn func(context.Context) (*analytics.DashboardReport, error)
}

func (f *fakeAnalyticsService) Dashboard(ctx context.Context) (*analytics.DashboardReport, error) {
	if f.dashboardFn == nil {
		return nil, errNotStubbed
	}
	return f.dashboardFn(ctx)
}
