package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aiverse-events/aiverse-backend/api/responses"
	"github.com/aiverse-events/aiverse-backend/api/validators"
	"github.com/aiverse-events/aiverse-backend/internal/events"
	"github.com/aiverse-events/aiverse-backend/internal/registrations"
	"github.com/aiverse-events/aiverse-backend/internal/users"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
)

// RegisterRequest is the public registration form. Email is the only
// required field; the rest enriches the walk-in account. Event selection is
// optional and falls back to the active event.
type RegisterRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone"`
	College     *string    `json:"college"`
	Department  *string    `json:"department"`
	YearOfStudy *string    `json:"year_of_study"`
	EventSlug   string     `json:"event_slug"`
	EventID     *uuid.UUID `json:"event_id"`
}

// RegistrationDTO is the public shape of a registration row.
type RegistrationDTO struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	EventID      uuid.UUID `json:"event_id"`
	IsActive     bool      `json:"is_active"`
	RegisteredAt string    `json:"registered_at"`
}

func registrationDTO(reg *models.Registration) RegistrationDTO {
	if reg == nil {
		return RegistrationDTO{}
	}
	return RegistrationDTO{
		ID:           reg.ID,
		UserID:       reg.UserID,
		EventID:      reg.EventID,
		IsActive:     reg.IsActive,
		RegisteredAt: reg.RegisteredAt.UTC().Format(timestampLayout),
	}
}

// Register handles the public registration endpoint. It resolves or creates
// the account behind the email, picks the target event, and records the
// registration. Re-submitting the same email for the same event returns the
// existing row with a 200 instead of a 201.
func Register(userSvc users.Service, eventSvc events.Service, regSvc registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userSvc == nil || eventSvc == nil || regSvc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()

		event, err := pickEvent(ctx, eventSvc, body.EventSlug, body.EventID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithEventSlug(ctx, event.Slug)
		}

		user, _, err := userSvc.GetOrCreateByEmail(ctx, nil, users.ProfileInput{
			Email:       body.Email,
			FullName:    validators.SanitizeString(body.FullName, 200),
			Phone:       body.Phone,
			College:     body.College,
			Department:  body.Department,
			YearOfStudy: body.YearOfStudy,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		reg, created, err := regSvc.Register(ctx, user, event)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"registration": registrationDTO(reg),
			"user":         users.FromModel(user),
			"event":        eventDTO(event),
			"created":      created,
		})
	}
}

// pickEvent resolves the target event. An explicit slug wins, then an
// explicit id, then the active-event policy.
func pickEvent(ctx context.Context, svc events.Service, slug string, id *uuid.UUID) (*models.Event, error) {
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		return svc.GetBySlug(ctx, trimmed)
	}
	return svc.Resolve(ctx, id)
}
