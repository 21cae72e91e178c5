package controllers

import (
	"net/http"

	"github.com/aiverse-events/aiverse-backend/api/responses"
	"github.com/aiverse-events/aiverse-backend/internal/analytics"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
)

// Dashboard serves the aggregate admin snapshot.
func Dashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
