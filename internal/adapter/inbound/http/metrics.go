// Package http exposes the Prometheus metrics endpoint for the daemon.
package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the item blocker.
// Pass to components that need to record metrics.
type Metrics struct {
	EvaluationsTotal    *prometheus.CounterVec
	CommandsTotal       *prometheus.CounterVec
	AuditAppendFailures prometheus.Counter
	WindowRearmsTotal   prometheus.Counter
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		EvaluationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "itemblocker",
				Name:      "evaluations_total",
				Help:      "Access attempts evaluated, by class and verdict",
			},
			[]string{"class", "verdict"},
		),
		CommandsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "itemblocker",
				Name:      "commands_total",
				Help:      "Administrative commands processed, by command and outcome",
			},
			[]string{"command", "outcome"},
		),
		AuditAppendFailures: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "itemblocker",
				Name:      "audit_append_failures_total",
				Help:      "Audit log appends that failed",
			},
		),
		WindowRearmsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "itemblocker",
				Name:      "window_rearms_total",
				Help:      "Epoch events that re-armed the timed window",
			},
		),
	}
}

// Handler returns the HTTP handler serving the /metrics endpoint for the
// given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

// Evaluation records one access-attempt evaluation.
func (m *Metrics) Evaluation(class, verdict string) {
	m.EvaluationsTotal.WithLabelValues(class, verdict).Inc()
}

// Command records one administrative command outcome.
func (m *Metrics) Command(command, outcome string) {
	m.CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// AuditFailure records one failed audit append.
func (m *Metrics) AuditFailure() {
	m.AuditAppendFailures.Inc()
}

// WindowRearm records one epoch-driven window re-arm.
func (m *Metrics) WindowRearm() {
	m.WindowRearmsTotal.Inc()
}
