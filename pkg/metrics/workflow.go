package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics tracks the side effects the workflow coordinator drives.
type WorkflowMetrics struct {
	registrationsCreated prometheus.Counter
	paymentsAutoCreated  prometheus.Counter
	paymentTransitions   *prometheus.CounterVec
	activityRecorded     *prometheus.CounterVec
	sideEffectFailures   *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	registrationsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "registrations_created_total",
		Help: "Event registrations created.",
	})
	paymentsAutoCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_auto_created_total",
		Help: "Pending payments auto-created at registration time.",
	})
	paymentTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_transitions_total",
		Help: "Payment status transitions by resulting status.",
	}, []string{"status"})
	activityRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_records_total",
		Help: "Activity log entries appended, by type.",
	}, []string{"type"})
	sideEffectFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_side_effect_failures_total",
		Help: "Best-effort workflow side effects that failed and were swallowed.",
	}, []string{"step"})
	reg.MustRegister(registrationsCreated, paymentsAutoCreated, paymentTransitions, activityRecorded, sideEffectFailures)
	return &WorkflowMetrics{
		registrationsCreated: registrationsCreated,
		paymentsAutoCreated:  paymentsAutoCreated,
		paymentTransitions:   paymentTransitions,
		activityRecorded:     activityRecorded,
		sideEffectFailures:   sideEffectFailures,
	}
}

// IncRegistrationCreated counts a newly created registration.
func (w *WorkflowMetrics) IncRegistrationCreated() {
	if w == nil || w.registrationsCreated == nil {
		return
	}
	w.registrationsCreated.Inc()
}

// IncPaymentAutoCreated counts a payment generated by the coordinator.
func (w *WorkflowMetrics) IncPaymentAutoCreated() {
	if w == nil || w.paymentsAutoCreated == nil {
		return
	}
	w.paymentsAutoCreated.Inc()
}

// IncPaymentTransition counts a transition into the given status.
func (w *WorkflowMetrics) IncPaymentTransition(status string) {
	if w == nil || w.paymentTransitions == nil {
		return
	}
	w.paymentTransitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncActivityRecorded counts an appended activity entry.
func (w *WorkflowMetrics) IncActivityRecorded(activityType string) {
	if w == nil || w.activityRecorded == nil {
		return
	}
	w.activityRecorded.WithLabelValues(normalizeLabel(activityType)).Inc()
}

// IncSideEffectFailure counts a swallowed best-effort failure for the named step.
func (w *WorkflowMetrics) IncSideEffectFailure(step string) {
	if w == nil || w.sideEffectFailures == nil {
		return
	}
	w.sideEffectFailures.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
