package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
)

// Hooks receives workflow callbacks when the ledger changes. Hooks run on
// the caller's transaction handle, synchronously, before commit.
type Hooks interface {
	PaymentSubmitted(ctx context.Context, tx *gorm.DB, payment *models.Payment, eventTitle string) error
	PaymentProcessed(ctx context.Context, tx *gorm.DB, payment *models.Payment, status enums.PaymentStatus) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventResolver interface {
	Resolve(ctx context.Context, eventID *uuid.UUID) (*models.Event, error)
}

// Service defines payment ledger operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Payment, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, filters ListFilters) ([]models.Payment, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	events eventResolver
	hooks  Hooks
}

// SubmitInput carries a manual proof-of-payment submission.
type SubmitInput struct {
	UserID        uuid.UUID       `json:"user_id"`
	EventID       *uuid.UUID      `json:"event_id"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	ScreenshotURL *string         `json:"screenshot_url"`
	Notes         string          `json:"notes"`
}

// TransitionInput moves a payment to a reviewed status.
type TransitionInput struct {
	PaymentID   uuid.UUID           `json:"payment_id"`
	Status      enums.PaymentStatus `json:"status"`
	ProcessedBy *uuid.UUID          `json:"processed_by"`
	Notes       *string             `json:"notes"`
}

// ServiceParams bundles the dependencies required to build the ledger.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Events eventResolver
	Hooks  Hooks
}

// NewService constructs the payment ledger. Hooks may be nil in tests;
// production wiring always supplies the workflow coordinator.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payments repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event resolver is required")
	}
	return &service{repo: params.Repo, tx: params.Tx, events: params.Events, hooks: params.Hooks}, nil
}

// Submit inserts a pending payment. The event is resolved from the explicit
// id when present, otherwise from the active-event policy.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Payment, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	event, err := s.events.Resolve(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:        input.UserID,
		EventID:       &event.ID,
		Amount:        input.Amount,
		TransactionID: strings.TrimSpace(input.TransactionID),
		ScreenshotURL: input.ScreenshotURL,
		Status:        enums.PaymentStatusPending,
		Notes:         input.Notes,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}
		if s.hooks != nil {
			if err := s.hooks.PaymentSubmitted(ctx, tx, payment, event.Title); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Transition stamps the review outcome. Notes are only overwritten when the
// reviewer supplies them. Corrective re-transitions are allowed and re-run
// the hook each time.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Payment, error) {
	if input.PaymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	if !input.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transition status %q", input.Status))
	}

	var payment *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByID(ctx, input.PaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}

		now := time.Now().UTC()
		found.Status = input.Status
		found.ProcessedAt = &now
		found.ProcessedBy = input.ProcessedBy
		if input.Notes != nil {
			found.Notes = *input.Notes
		}

		if err := repo.Update(ctx, found); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
		}

		if s.hooks != nil {
			if err := s.hooks.PaymentProcessed(ctx, tx, found, input.Status); err != nil {
				return err
			}
		}
		payment = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	return payment, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Payment, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", *filters.Status))
	}
	list, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return list, nil
}
