package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aiverse-events/aiverse-backend/api/middleware"
	"github.com/aiverse-events/aiverse-backend/api/responses"
	"github.com/aiverse-events/aiverse-backend/api/validators"
	"github.com/aiverse-events/aiverse-backend/internal/events"
	"github.com/aiverse-events/aiverse-backend/internal/payments"
	"github.com/aiverse-events/aiverse-backend/internal/users"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
)

// SubmitPaymentRequest is the manual proof-of-payment form. An
// authenticated caller pays as themselves; an anonymous caller must supply
// the email their registration used.
type SubmitPaymentRequest struct {
	Email         string          `json:"email" validate:"omitempty,email"`
	FullName      string          `json:"full_name"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	ScreenshotURL *string         `json:"screenshot_url"`
	Notes         string          `json:"notes"`
	EventSlug     string          `json:"event_slug"`
	EventID       *uuid.UUID      `json:"event_id"`
}

// DecidePaymentRequest carries the optional reviewer notes on an approve or
// reject call.
type DecidePaymentRequest struct {
	Notes *string `json:"notes"`
}

// PaymentDTO is the public shape of a payment row.
type PaymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	EventID       *uuid.UUID `json:"event_id,omitempty"`
	Amount        string     `json:"amount"`
	TransactionID string     `json:"transaction_id"`
	ScreenshotURL *string    `json:"screenshot_url,omitempty"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	AutoCreated   bool       `json:"auto_created"`
	SubmittedAt   string     `json:"submitted_at"`
	ProcessedAt   *string    `json:"processed_at,omitempty"`
	ProcessedBy   *uuid.UUID `json:"processed_by,omitempty"`
}

func paymentDTO(payment *models.Payment) PaymentDTO {
	if payment == nil {
		return PaymentDTO{}
	}
	dto := PaymentDTO{
		ID:            payment.ID,
		UserID:        payment.UserID,
		EventID:       payment.EventID,
		Amount:        payment.Amount.StringFixed(2),
		TransactionID: payment.TransactionID,
		ScreenshotURL: payment.ScreenshotURL,
		Status:        string(payment.Status),
		Notes:         payment.Notes,
		AutoCreated:   payment.AutoCreated,
		SubmittedAt:   payment.SubmittedAt.UTC().Format(timestampLayout),
		ProcessedBy:   payment.ProcessedBy,
	}
	if payment.ProcessedAt != nil {
		formatted := payment.ProcessedAt.UTC().Format(timestampLayout)
		dto.ProcessedAt = &formatted
	}
	return dto
}

// SubmitPayment handles the public payment submission endpoint.
func SubmitPayment(paySvc payments.Service, userSvc users.Service, eventSvc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if paySvc == nil || userSvc == nil || eventSvc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body SubmitPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()

		userID, err := submittingUser(r, userSvc, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		eventID := body.EventID
		if slug := strings.TrimSpace(body.EventSlug); slug != "" {
			event, err := eventSvc.GetBySlug(ctx, slug)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			eventID = &event.ID
		}

		payment, err := paySvc.Submit(ctx, payments.SubmitInput{
			UserID:        userID,
			EventID:       eventID,
			Amount:        body.Amount,
			TransactionID: validators.SanitizeString(body.TransactionID, 200),
			ScreenshotURL: body.ScreenshotURL,
			Notes:         validators.SanitizeString(body.Notes, 2000),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithPaymentID(ctx, payment.ID.String())
			logg.Info(ctx, "payment submitted")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"payment": paymentDTO(payment)})
	}
}

// submittingUser resolves the account a submission belongs to. A bearer
// token wins; otherwise the email field names or creates the walk-in
// account.
func submittingUser(r *http.Request, userSvc users.Service, body SubmitPaymentRequest) (uuid.UUID, error) {
	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token subject")
		}
		return id, nil
	}

	if strings.TrimSpace(body.Email) == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required for anonymous submissions")
	}

	user, _, err := userSvc.GetOrCreateByEmail(r.Context(), nil, users.ProfileInput{
		Email:    body.Email,
		FullName: validators.SanitizeString(body.FullName, 200),
	})
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// ApprovePayment moves a payment to approved. The reviewer comes from the
// bearer token when one is present; an absent token records a system
// decision.
func ApprovePayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return decidePayment(svc, logg, enums.PaymentStatusApproved)
}

// RejectPayment moves a payment to rejected.
func RejectPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return decidePayment(svc, logg, enums.PaymentStatusRejected)
}

func decidePayment(svc payments.Service, logg *logger.Logger, status enums.PaymentStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "payment id must be a uuid"))
			return
		}

		var body DecidePaymentRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		var processedBy *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				processedBy = &id
			}
		}

		payment, err := svc.Transition(r.Context(), payments.TransitionInput{
			PaymentID:   paymentID,
			Status:      status,
			ProcessedBy: processedBy,
			Notes:       body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithPaymentID(ctx, payment.ID.String())
			logg.Info(ctx, "payment "+string(status))
		}
		responses.WriteSuccess(w, map[string]any{"payment": paymentDTO(payment)})
	}
}

// ListPayments serves the review queue. Admin only.
func ListPayments(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := payments.ListFilters{}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePaymentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a uuid"))
				return
			}
			filters.UserID = &id
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Limit = limit

		rows, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos := make([]PaymentDTO, 0, len(rows))
		for i := range rows {
			dtos = append(dtos, paymentDTO(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{"payments": dtos})
	}
}

// GetPayment serves one payment by id. Admin only.
func GetPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "payment id must be a uuid"))
			return
		}

		payment, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"payment": paymentDTO(payment)})
	}
}
