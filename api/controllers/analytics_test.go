package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aiverse-events/aiverse-backend/internal/analytics"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
)

func TestDashboardServesReport(t *testing.T) {
	svc := &fakeAnalyticsService{
		dashboardFn: func(context.Context) (*analytics.DashboardReport, error) {
			return &analytics.DashboardReport{
				TotalUsers:      42,
				ApprovedRevenue: decimal.RequireFromString("1250.00"),
			}, nil
		},
	}

	handler := Dashboard(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/analytics/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			TotalUsers int64 `json:"total_users"`
		} `json:"data"`
	}
	decodeEnvelope(t, rec.Body, &envelope)
	if envelope.Data.TotalUsers != 42 {
		t.Fatalf("unexpected total users %d", envelope.Data.TotalUsers)
	}
}

func TestDashboardPropagatesDependencyError(t *testing.T) {
	svc := &fakeAnalyticsService{
		dashboardFn: func(context.Context) (*analytics.DashboardReport, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")
		},
	}

	handler := Dashboard(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/analytics/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if code := errorCode(t, rec.Body); code != string(pkgerrors.CodeDependency) {
		t.Fatalf("unexpected code %s", code)
	}
}
