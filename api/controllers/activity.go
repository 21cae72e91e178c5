package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aiverse-events/aiverse-backend/api/responses"
	"github.com/aiverse-events/aiverse-backend/api/validators"
	"github.com/aiverse-events/aiverse-backend/internal/activity"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
)

// ActivityDTO is the public shape of a trail entry.
type ActivityDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	Type      string    `json:"type"`
	Timestamp string    `json:"timestamp"`
}

func activityDTO(row *models.Activity) ActivityDTO {
	if row == nil {
		return ActivityDTO{}
	}
	return ActivityDTO{
		ID:        row.ID,
		UserID:    row.UserID,
		Action:    row.Action,
		Type:      string(row.Type),
		Timestamp: row.Timestamp.UTC().Format(timestampLayout),
	}
}

// ListActivity serves the audit trail, newest first. Admin only. A user_id
// filter narrows it to one account's history.
func ListActivity(svc activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var rows []models.Activity
		if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
			userID, perr := uuid.Parse(raw)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a uuid"))
				return
			}
			rows, err = svc.ListByUser(r.Context(), userID, limit)
		} else {
			rows, err = svc.ListRecent(r.Context(), limit)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos := make([]ActivityDTO, 0, len(rows))
		for i := range rows {
			dtos = append(dtos, activityDTO(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{"activities": dtos})
	}
}
