package registrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/pkg/db"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
)

const userEventConstraint = "registrations_user_event_key"

// Hooks receives workflow callbacks when the ledger changes. The hook runs
// on the caller's transaction handle, synchronously, before commit.
type Hooks interface {
	RegistrationCreated(ctx context.Context, tx *gorm.DB, reg *models.Registration, event *models.Event) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines registration ledger operations.
type Service interface {
	Register(ctx context.Context, user *models.User, event *models.Event) (*models.Registration, bool, error)
	Activate(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error)
	CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	hooks Hooks
}

// ServiceParams bundles the dependencies required to build the ledger.
type ServiceParams struct {
	Repo  Repository
	Tx    txRunner
	Hooks Hooks
}

// NewService constructs the registration ledger. Hooks may be nil in tests;
// production wiring always supplies the workflow coordinator.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("registrations repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: params.Repo, tx: params.Tx, hooks: params.Hooks}, nil
}

// Register records the (user, event) pair exactly once. Re-submission
// returns the existing row untouched and fires no hooks. Concurrent first
// submissions are serialized by the unique constraint; the loser returns
// the winner's row.
func (s *service) Register(ctx context.Context, user *models.User, event *models.Event) (*models.Registration, bool, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "user is required")
	}
	if event == nil || event.ID == uuid.Nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "event is required")
	}

	var (
		result  *models.Registration
		created bool
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByUserAndEvent(ctx, user.ID, event.ID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup registration")
		}

		reg := &models.Registration{
			UserID:   user.ID,
			EventID:  event.ID,
			IsActive: true,
		}
		if err := repo.Create(ctx, reg); err != nil {
			if db.IsUniqueViolation(err, userEventConstraint) || db.IsUniqueViolation(err, "") {
				winner, ferr := repo.FindByUserAndEvent(ctx, user.ID, event.ID)
				if ferr != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, ferr, "load registration after unique violation")
				}
				result = winner
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create registration")
		}

		result = reg
		created = true

		if s.hooks != nil {
			if err := s.hooks.RegistrationCreated(ctx, tx, reg, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// Activate re-asserts is_active for the pair. Missing rows are a no-op.
func (s *service) Activate(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and event id are required")
	}
	if err := s.repo.WithTx(tx).Activate(ctx, userID, eventID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate registration")
	}
	return nil
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error) {
	if eventID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id is required")
	}
	regs, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list registrations")
	}
	return regs, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	regs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list registrations")
	}
	return regs, nil
}

func (s *service) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	if eventID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "event id is required")
	}
	count, err := s.repo.CountActiveByEvent(ctx, eventID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count registrations")
	}
	return count, nil
}
