package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/aiverse-events/aiverse-backend/internal/activity"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
)

const recentActivityLimit = 10

// Service builds the admin dashboard snapshot.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardReport, error)
}

type userCounter interface {
	Count(ctx context.Context) (int64, error)
}

type eventCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.EventStatus) (int64, error)
}

type registrationCounter interface {
	Count(ctx context.Context) (int64, error)
}

type paymentAggregator interface {
	CountByStatus(ctx context.Context, status enums.PaymentStatus) (int64, error)
	SumAmountByStatus(ctx context.Context, status enums.PaymentStatus) (decimal.Decimal, error)
}

type activityReader interface {
	ListRecent(ctx context.Context, limit int) ([]models.Activity, error)
}

// DashboardReport is the aggregate snapshot served to the admin dashboard.
type DashboardReport struct {
	TotalUsers         int64                         `json:"total_users"`
	TotalEvents        int64                         `json:"total_events"`
	TotalRegistrations int64                         `json:"total_registrations"`
	EventsByStatus     map[enums.EventStatus]int64   `json:"events_by_status"`
	PaymentsByStatus   map[enums.PaymentStatus]int64 `json:"payments_by_status"`
	ApprovedRevenue    decimal.Decimal               `json:"approved_revenue"`
	PendingRevenue     decimal.Decimal               `json:"pending_revenue"`
	RecentActivities   []ActivityEntry               `json:"recent_activities"`
}

// ActivityEntry is a trail row shaped for the dashboard.
type ActivityEntry struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Action    string             `json:"action"`
	Type      enums.ActivityType `json:"type"`
	Timestamp string             `json:"timestamp"`
}

type service struct {
	users         userCounter
	events        eventCounter
	registrations registrationCounter
	payments      paymentAggregator
	activities    activityReader
}

// ServiceParams bundles the read models the dashboard aggregates.
type ServiceParams struct {
	Users         userCounter
	Events        eventCounter
	Registrations registrationCounter
	Payments      paymentAggregator
	Activities    activityReader
}

// NewService wires the dashboard aggregator.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil || params.Events == nil || params.Registrations == nil ||
		params.Payments == nil || params.Activities == nil {
		return nil, fmt.Errorf("all dashboard read models are required")
	}
	return &service{
		users:         params.Users,
		events:        params.Events,
		registrations: params.Registrations,
		payments:      params.Payments,
		activities:    params.Activities,
	}, nil
}

// Dashboard runs every aggregate query and combines their failures, so one
// broken count reports alongside the rest instead of masking them.
func (s *service) Dashboard(ctx context.Context) (*DashboardReport, error) {
	report := &DashboardReport{
		EventsByStatus:   map[enums.EventStatus]int64{},
		PaymentsByStatus: map[enums.PaymentStatus]int64{},
		ApprovedRevenue:  decimal.Zero,
		PendingRevenue:   decimal.Zero,
	}

	var errs error

	var err error
	if report.TotalUsers, err = s.users.Count(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count users: %w", err))
	}
	if report.TotalEvents, err = s.events.Count(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count events: %w", err))
	}
	if report.TotalRegistrations, err = s.registrations.Count(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count registrations: %w", err))
	}

	for _, status := range []enums.EventStatus{
		enums.EventStatusUpcoming,
		enums.EventStatusOngoing,
		enums.EventStatusCompleted,
		enums.EventStatusCancelled,
	} {
		count, err := s.events.CountByStatus(ctx, status)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("count %s events: %w", status, err))
			continue
		}
		report.EventsByStatus[status] = count
	}

	for _, status := range []enums.PaymentStatus{
		enums.PaymentStatusPending,
		enums.PaymentStatusApproved,
		enums.PaymentStatusRejected,
	} {
		count, err := s.payments.CountByStatus(ctx, status)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("count %s payments: %w", status, err))
			continue
		}
		report.PaymentsByStatus[status] = count
	}

	if report.ApprovedRevenue, err = s.payments.SumAmountByStatus(ctx, enums.PaymentStatusApproved); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("sum approved revenue: %w", err))
	}
	if report.PendingRevenue, err = s.payments.SumAmountByStatus(ctx, enums.PaymentStatusPending); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("sum pending revenue: %w", err))
	}

	recent, err := s.activities.ListRecent(ctx, recentActivityLimit)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("list recent activities: %w", err))
	}
	for _, record := range recent {
		report.RecentActivities = append(report.RecentActivities, ActivityEntry{
			ID:        record.ID,
			UserID:    record.UserID,
			Action:    record.Action,
			Type:      record.Type,
			Timestamp: record.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	if errs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "build dashboard")
	}
	return report, nil
}

var _ activityReader = (activity.Service)(nil)
