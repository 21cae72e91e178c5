package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/internal/activity"
	"github.com/aiverse-events/aiverse-backend/internal/events"
	"github.com/aiverse-events/aiverse-backend/internal/payments"
	"github.com/aiverse-events/aiverse-backend/internal/registrations"
	"github.com/aiverse-events/aiverse-backend/pkg/db"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
	"github.com/aiverse-events/aiverse-backend/pkg/metrics"
)

const autoCreateConstraint = "payments_auto_created_user_event_key"

// Coordinator reacts to ledger changes. It implements registrations.Hooks
// and payments.Hooks, running every side effect synchronously on the
// caller's transaction handle. Audit writes are best effort; storage
// failures on the payment backstop are not.
type Coordinator struct {
	registrations registrations.Repository
	payments      payments.Repository
	events        events.Repository
	activities    activity.Service
	metrics       *metrics.WorkflowMetrics
	logg          *logger.Logger
}

// Params bundles the dependencies required to build a coordinator.
type Params struct {
	Registrations registrations.Repository
	Payments      payments.Repository
	Events        events.Repository
	Activities    activity.Service
	Metrics       *metrics.WorkflowMetrics
	Logger        *logger.Logger
}

// NewCoordinator wires the workflow side effects.
func NewCoordinator(params Params) (*Coordinator, error) {
	if params.Registrations == nil {
		return nil, fmt.Errorf("registrations repository is required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payments repository is required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("events repository is required")
	}
	if params.Activities == nil {
		return nil, fmt.Errorf("activity service is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Coordinator{
		registrations: params.Registrations,
		payments:      params.Payments,
		events:        params.Events,
		activities:    params.Activities,
		metrics:       params.Metrics,
		logg:          params.Logger,
	}, nil
}

var _ registrations.Hooks = (*Coordinator)(nil)
var _ payments.Hooks = (*Coordinator)(nil)

// RegistrationCreated backstops the fee with a pending payment and records
// the registration in the activity trail. The payment step surfaces real
// storage errors; losing the backstop race to a concurrent transaction is
// success. The audit step never fails the registration.
func (c *Coordinator) RegistrationCreated(ctx context.Context, tx *gorm.DB, reg *models.Registration, event *models.Event) error {
	ctx = c.logg.WithEventSlug(c.logg.WithUserID(ctx, reg.UserID.String()), event.Slug)
	c.metrics.IncRegistrationCreated()

	if event.HasFee() {
		if err := c.ensurePendingPayment(ctx, tx, reg.UserID, event); err != nil {
			return err
		}
	}

	c.recordActivity(ctx, tx, "registration_activity", activity.RecordInput{
		UserID: reg.UserID,
		Action: fmt.Sprintf("Registered for %s", event.Title),
		Type:   enums.ActivityTypeRegistration,
	})
	return nil
}

// PaymentSubmitted appends the audit entry for a manual submission.
func (c *Coordinator) PaymentSubmitted(ctx context.Context, tx *gorm.DB, payment *models.Payment, eventTitle string) error {
	ctx = c.logg.WithPaymentID(c.logg.WithUserID(ctx, payment.UserID.String()), payment.ID.String())

	action := fmt.Sprintf("Initiated payment of %s", payment.Amount.StringFixed(2))
	if eventTitle != "" {
		action = fmt.Sprintf("%s for %s", action, eventTitle)
	}

	c.recordActivity(ctx, tx, "payment_submitted_activity", activity.RecordInput{
		UserID: payment.UserID,
		Action: action,
		Type:   enums.ActivityTypePayment,
	})
	return nil
}

// PaymentProcessed reacts to a review outcome. Approval re-activates the
// registration before the audit write; activation errors surface, audit
// errors do not. Rejection changes nothing beyond the payment itself.
func (c *Coordinator) PaymentProcessed(ctx context.Context, tx *gorm.DB, payment *models.Payment, status enums.PaymentStatus) error {
	ctx = c.logg.WithPaymentID(c.logg.WithUserID(ctx, payment.UserID.String()), payment.ID.String())
	c.metrics.IncPaymentTransition(string(status))

	if status != enums.PaymentStatusApproved {
		return nil
	}

	if payment.EventID != nil {
		if err := c.registrations.WithTx(tx).Activate(ctx, payment.UserID, *payment.EventID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate registration")
		}
	}

	action := "Payment approved"
	if title := c.eventTitle(ctx, tx, payment.EventID); title != "" {
		action = fmt.Sprintf("%s for %s", action, title)
	}

	c.recordActivity(ctx, tx, "payment_approved_activity", activity.RecordInput{
		UserID: payment.UserID,
		Action: action,
		Type:   enums.ActivityTypePayment,
	})
	return nil
}

// ensurePendingPayment creates the auto payment unless one already exists
// for the pair. The partial unique index catches concurrent transactions;
// losing that race means the payment exists, which is the desired state.
func (c *Coordinator) ensurePendingPayment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, event *models.Event) error {
	repo := c.payments.WithTx(tx)

	exists, err := repo.ExistsForUserAndEvent(ctx, userID, event.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payment")
	}
	if exists {
		return nil
	}

	payment := &models.Payment{
		UserID:      userID,
		EventID:     &event.ID,
		Amount:      event.RegistrationFee,
		Status:      enums.PaymentStatusPending,
		Notes:       fmt.Sprintf("Auto-created upon registration for %s", event.Title),
		AutoCreated: true,
	}
	if err := repo.Create(ctx, payment); err != nil {
		if db.IsUniqueViolation(err, autoCreateConstraint) || db.IsUniqueViolation(err, "") {
			c.logg.Info(ctx, "auto payment already created by a concurrent registration")
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create auto payment")
	}

	c.metrics.IncPaymentAutoCreated()
	return nil
}

// recordActivity appends a trail entry and swallows any failure. The audit
// trail is advisory; it must never undo the write it describes.
func (c *Coordinator) recordActivity(ctx context.Context, tx *gorm.DB, step string, input activity.RecordInput) {
	if _, err := c.activities.Record(ctx, tx, input); err != nil {
		c.metrics.IncSideEffectFailure(step)
		c.logg.Error(ctx, fmt.Sprintf("record %s", step), err)
		return
	}
	c.metrics.IncActivityRecorded(string(input.Type))
}

func (c *Coordinator) eventTitle(ctx context.Context, tx *gorm.DB, eventID *uuid.UUID) string {
	if eventID == nil {
		return ""
	}
	event, err := c.events.WithTx(tx).FindByID(ctx, *eventID)
	if err != nil {
		c.logg.Error(ctx, "load event for audit trail", err)
		return ""
	}
	return event.Title
}
