package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/internal/activity"
	"github.com/aiverse-events/aiverse-backend/internal/events"
	"github.com/aiverse-events/aiverse-backend/internal/payments"
	"github.com/aiverse-events/aiverse-backend/internal/registrations"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
)

type fakeRegistrationsRepo struct {
	registrations.Repository

	activateFn   func(ctx context.Context, userID, eventID uuid.UUID) error
	activateHits int
}

func (f *fakeRegistrationsRepo) WithTx(tx *gorm.DB) registrations.Repository { return f }

func (f *fakeRegistrationsRepo) Activate(ctx context.Context, userID, eventID uuid.UUID) error {
	f.activateHits++
	if f.activateFn != nil {
		return f.activateFn(ctx, userID, eventID)
	}
	return nil
}

type fakePaymentsRepo struct {
	payments.Repository

	existsFn func(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	createFn func(ctx context.Context, payment *models.Payment) error
	created  []*models.Payment
}

func (f *fakePaymentsRepo) WithTx(tx *gorm.DB) payments.Repository { return f }

func (f *fakePaymentsRepo) ExistsForUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, userID, eventID)
	}
	return false, nil
}

func (f *fakePaymentsRepo) Create(ctx context.Context, payment *models.Payment) error {
	if f.createFn != nil {
		return f.createFn(ctx, payment)
	}
	f.created = append(f.created, payment)
	return nil
}

type fakeEventsRepo struct {
	events.Repository

	byID map[uuid.UUID]*models.Event
}

func (f *fakeEventsRepo) WithTx(tx *gorm.DB) events.Repository { return f }

func (f *fakeEventsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if event, ok := f.byID[id]; ok {
		return event, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeActivityService struct {
	records []activity.RecordInput
	err     error
}

func (f *fakeActivityService) Record(ctx context.Context, tx *gorm.DB, input activity.RecordInput) (*models.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.records = append(f.records, input)
	return &models.Activity{UserID: input.UserID, Action: input.Action, Type: input.Type}, nil
}

func (f *fakeActivityService) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Activity, error) {
	return nil, nil
}

func (f *fakeActivityService) ListRecent(ctx context.Context, limit int) ([]models.Activity, error) {
	return nil, nil
}

type testDeps struct {
	regs       *fakeRegistrationsRepo
	pays       *fakePaymentsRepo
	events     *fakeEventsRepo
	activities *fakeActivityService
}

func newTestCoordinator(t *testing.T, deps testDeps) *Coordinator {
	t.Helper()

	if deps.regs == nil {
		deps.regs = &fakeRegistrationsRepo{}
	}
	if deps.pays == nil {
		deps.pays = &fakePaymentsRepo{}
	}
	if deps.events == nil {
		deps.events = &fakeEventsRepo{}
	}
	if deps.activities == nil {
		deps.activities = &fakeActivityService{}
	}

	coord, err := NewCoordinator(Params{
		Registrations: deps.regs,
		Payments:      deps.pays,
		Events:        deps.events,
		Activities:    deps.activities,
		Logger:        logger.New(logger.Options{Level: zerolog.Disabled}),
	})
	if err != nil {
		t.Fatalf("unexpected coordinator error: %v", err)
	}
	return coord
}

func paidEvent() *models.Event {
	return &models.Event{
		ID:              uuid.New(),
		Title:           "AI-Verse 4.0",
		Slug:            "ai-verse-4",
		RegistrationFee: decimal.NewFromInt(250),
	}
}

func freeEvent() *models.Event {
	return &models.Event{ID: uuid.New(), Title: "Community Meetup", Slug: "meetup"}
}

func TestCoordinator_RegistrationCreatedAutoCreatesPayment(t *testing.T) {
	event := paidEvent()
	deps := testDeps{pays: &fakePaymentsRepo{}, activities: &fakeActivityService{}}
	coord := newTestCoordinator(t, deps)

	reg := &models.Registration{ID: uuid.New(), UserID: uuid.New(), EventID: event.ID, IsActive: true}
	if err := coord.RegistrationCreated(context.Background(), nil, reg, event); err != nil {
		t.Fatalf("RegistrationCreated error: %v", err)
	}

	if len(deps.pays.created) != 1 {
		t.Fatalf("expected one auto payment, got %d", len(deps.pays.created))
	}
	payment := deps.pays.created[0]
	if !payment.AutoCreated {
		t.Fatal("backstop payment must be flagged auto_created")
	}
	if payment.Status != enums.PaymentStatusPending {
		t.Fatalf("backstop payment must be pending, got %s", payment.Status)
	}
	if !payment.Amount.Equal(event.RegistrationFee) {
		t.Fatalf("backstop amount must equal the fee, got %s", payment.Amount)
	}
	if payment.Notes != "Auto-created upon registration for AI-Verse 4.0" {
		t.Fatalf("unexpected note: %q", payment.Notes)
	}

	if len(deps.activities.records) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(deps.activities.records))
	}
	entry := deps.activities.records[0]
	if entry.Action != "Registered for AI-Verse 4.0" || entry.Type != enums.ActivityTypeRegistration {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
}

func TestCoordinator_RegistrationCreatedFreeEventSkipsPayment(t *testing.T) {
	event := freeEvent()
	deps := testDeps{pays: &fakePaymentsRepo{}, activities: &fakeActivityService{}}
	coord := newTestCoordinator(t, deps)

	reg := &models.Registration{ID: uuid.New(), UserID: uuid.New(), EventID: event.ID}
	if err := coord.RegistrationCreated(context.Background(), nil, reg, event); err != nil {
		t.Fatalf("RegistrationCreated error: %v", err)
	}
	if len(deps.pays.created) != 0 {
		t.Fatal("free events must not create payments")
	}
	if len(deps.activities.records) != 1 {
		t.Fatal("audit entry still expected for free events")
	}
}

func TestCoordinator_RegistrationCreatedExistingPaymentSkipsCreate(t *testing.T) {
	event := paidEvent()
	deps := testDeps{
		pays: &fakePaymentsRepo{
			existsFn: func(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
				return true, nil
			},
		},
		activities: &fakeActivityService{},
	}
	coord := newTestCoordinator(t, deps)

	reg := &models.Registration{ID: uuid.New(), UserID: uuid.New(), EventID: event.ID}
	if err := coord.RegistrationCreated(context.Background(), nil, reg, event); err != nil {
		t.Fatalf("RegistrationCreated error: %v", err)
	}
	if len(deps.pays.created) != 0 {
		t.Fatal("existing payment must suppress the backstop")
	}
}

func TestCoordinator_RegistrationCreatedBackstopRaceIsSuccess(t *testing.T) {
	event := paidEvent()
	deps := testDeps{
		pays: &fakePaymentsRepo{
			createFn: func(ctx context.Context, payment *models.Payment) error {
				return fmt.Errorf(`duplicate key value violates unique constraint %q`, autoCreateConstraint)
			},
		},
		activities: &fakeActivityService{},
	}
	coord := newTestCoordinator(t, deps)

	reg := &models.Registration{ID: uuid.New(), UserID: uuid.New(), EventID: event.ID}
	if err := coord.RegistrationCreated(context.Background(), nil, reg, event); err != nil {
		t.Fatalf("losing the backstop race must be success, got %v", err)
	}
	if len(deps.activities.records) != 1 {
		t.Fatal("audit entry still expected after a lost race")
	}
}

func TestCoordinator_RegistrationCreatedStorageErrorSurfaces(t *testing.T) {
	event := paidEvent()
	deps := testDeps{
		pays: &fakePaymentsRepo{
			createFn: func(ctx context.Context, payment *models.Payment) error {
				return errors.New("connection reset")
			},
		},
	}
	coord := newTestCoordinator(t, deps)

	reg := &models.Registration{ID: uuid.New(), UserID: uuid.New(), EventID: event.ID}
	if err := coord.RegistrationCreated(context.Background(), nil, reg, event); err == nil {
		t.Fatal("real storage errors on the backstop must surface")
	}
}

func TestCoordinator_RegistrationCreatedAuditFailureSwallowed(t *testing.T) {
	event := freeEvent()
	deps := testDeps{activities: &fakeActivityService{err: errors.New("activity store down")}}
	coord := newTestCoordinator(t, deps)

	reg := &models.Registration{ID: uuid.New(), UserID: uuid.New(), EventID: event.ID}
	if err := coord.RegistrationCreated(context.Background(), nil, reg, event); err != nil {
		t.Fatalf("audit failure must not fail the registration, got %v", err)
	}
}

func TestCoordinator_PaymentSubmittedRecordsAudit(t *testing.T) {
	deps := testDeps{activities: &fakeActivityService{}}
	coord := newTestCoordinator(t, deps)

	eventID := uuid.New()
	payment := &models.Payment{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		EventID: &eventID,
		Amount:  decimal.RequireFromString("250.50"),
	}
	if err := coord.PaymentSubmitted(context.Background(), nil, payment, "AI-Verse 4.0"); err != nil {
		t.Fatalf("PaymentSubmitted error: %v", err)
	}
	if len(deps.activities.records) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(deps.activities.records))
	}
	entry := deps.activities.records[0]
	if entry.Action != "Initiated payment of 250.50 for AI-Verse 4.0" {
		t.Fatalf("unexpected audit action: %q", entry.Action)
	}
	if entry.Type != enums.ActivityTypePayment {
		t.Fatalf("unexpected audit type: %s", entry.Type)
	}
}

func TestCoordinator_PaymentApprovedActivatesThenAudits(t *testing.T) {
	event := paidEvent()
	regs := &fakeRegistrationsRepo{}
	deps := testDeps{
		regs:       regs,
		events:     &fakeEventsRepo{byID: map[uuid.UUID]*models.Event{event.ID: event}},
		activities: &fakeActivityService{},
	}
	coord := newTestCoordinator(t, deps)

	payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), EventID: &event.ID, Amount: event.RegistrationFee}
	if err := coord.PaymentProcessed(context.Background(), nil, payment, enums.PaymentStatusApproved); err != nil {
		t.Fatalf("PaymentProcessed error: %v", err)
	}
	if regs.activateHits != 1 {
		t.Fatalf("expected one activation, got %d", regs.activateHits)
	}
	if len(deps.activities.records) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(deps.activities.records))
	}
	if deps.activities.records[0].Action != "Payment approved for AI-Verse 4.0" {
		t.Fatalf("unexpected audit action: %q", deps.activities.records[0].Action)
	}
}

func TestCoordinator_PaymentApprovedActivationErrorSurfaces(t *testing.T) {
	event := paidEvent()
	regs := &fakeRegistrationsRepo{
		activateFn: func(ctx context.Context, userID, eventID uuid.UUID) error {
			return errors.New("lock timeout")
		},
	}
	deps := testDeps{regs: regs, events: &fakeEventsRepo{byID: map[uuid.UUID]*models.Event{event.ID: event}}}
	coord := newTestCoordinator(t, deps)

	payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), EventID: &event.ID}
	if err := coord.PaymentProcessed(context.Background(), nil, payment, enums.PaymentStatusApproved); err == nil {
		t.Fatal("activation errors must surface")
	}
}

func TestCoordinator_PaymentRejectedLeavesRegistrationAlone(t *testing.T) {
	regs := &fakeRegistrationsRepo{}
	deps := testDeps{regs: regs, activities: &fakeActivityService{}}
	coord := newTestCoordinator(t, deps)

	eventID := uuid.New()
	payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), EventID: &eventID}
	if err := coord.PaymentProcessed(context.Background(), nil, payment, enums.PaymentStatusRejected); err != nil {
		t.Fatalf("PaymentProcessed error: %v", err)
	}
	if regs.activateHits != 0 {
		t.Fatal("rejection must not touch the registration")
	}
	if len(deps.activities.records) != 0 {
		t.Fatal("rejection writes no audit entry")
	}
}

func TestCoordinator_PaymentApprovedWithoutEvent(t *testing.T) {
	regs := &fakeRegistrationsRepo{}
	deps := testDeps{regs: regs, activities: &fakeActivityService{}}
	coord := newTestCoordinator(t, deps)

	payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), Amount: decimal.NewFromInt(100)}
	if err := coord.PaymentProcessed(context.Background(), nil, payment, enums.PaymentStatusApproved); err != nil {
		t.Fatalf("PaymentProcessed error: %v", err)
	}
	if regs.activateHits != 0 {
		t.Fatal("no event attached means nothing to activate")
	}
	if len(deps.activities.records) != 1 || deps.activities.records[0].Action != "Payment approved" {
		t.Fatalf("expected bare approval audit, got %+v", deps.activities.records)
	}
}
