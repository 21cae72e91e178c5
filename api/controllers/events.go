package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aiverse-events/aiverse-backend/api/responses"
	"github.com/aiverse-events/aiverse-backend/api/validators"
	"github.com/aiverse-events/aiverse-backend/internal/events"
	"github.com/aiverse-events/aiverse-backend/internal/registrations"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
)

const timestampLayout = "2006-01-02T15:04:05Z07:00"

// EventDTO is the public shape of an event.
type EventDTO struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	Date             string    `json:"date"`
	EndDate          *string   `json:"end_date,omitempty"`
	Venue            string    `json:"venue"`
	RegistrationFee  string    `json:"registration_fee"`
	MaxParticipants  *int      `json:"max_participants,omitempty"`
	Status           string    `json:"status"`
	IsFeatured       bool      `json:"is_featured"`
	CoverImageURL    *string   `json:"cover_image_url,omitempty"`
}

func eventDTO(event *models.Event) EventDTO {
	if event == nil {
		return EventDTO{}
	}
	dto := EventDTO{
		ID:               event.ID,
		Title:            event.Title,
		Slug:             event.Slug,
		Description:      event.Description,
		ShortDescription: event.ShortDescription,
		Date:             event.Date.UTC().Format(timestampLayout),
		Venue:            event.Venue,
		RegistrationFee:  event.RegistrationFee.StringFixed(2),
		MaxParticipants:  event.MaxParticipants,
		Status:           string(event.Status),
		IsFeatured:       event.IsFeatured,
		CoverImageURL:    event.CoverImageURL,
	}
	if event.EndDate != nil {
		formatted := event.EndDate.UTC().Format(timestampLayout)
		dto.EndDate = &formatted
	}
	return dto
}

// ListEvents serves the public event catalogue with optional status and
// featured filters.
func ListEvents(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := events.ListFilters{}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseEventStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown event status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
			featured := raw == "true" || raw == "1"
			filters.Featured = &featured
		}

		rows, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos := make([]EventDTO, 0, len(rows))
		for i := range rows {
			dtos = append(dtos, eventDTO(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{"events": dtos})
	}
}

// GetEvent serves a single event by slug.
func GetEvent(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		event, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"event": eventDTO(event)})
	}
}

// CreateEvent publishes a new event. Admin only.
func CreateEvent(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body events.CreateEventInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"event": eventDTO(event)})
	}
}

// UpdateEvent applies a partial update to an event. Admin only.
func UpdateEvent(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "event id must be a uuid"))
			return
		}

		var body events.UpdateEventInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"event": eventDTO(event)})
	}
}

// EventRegistrations lists the registrations for one event together with
// the active headcount. Admin only.
func EventRegistrations(eventSvc events.Service, regSvc registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		event, err := eventSvc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := regSvc.ListByEvent(r.Context(), event.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active, err := regSvc.CountActiveByEvent(r.Context(), event.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos := make([]RegistrationDTO, 0, len(rows))
		for i := range rows {
			dtos = append(dtos, registrationDTO(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"event":         eventDTO(event),
			"registrations": dtos,
			"active_count":  active,
		})
	}
}
