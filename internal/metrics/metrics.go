// Package metrics exposes Prometheus instrumentation for the settlement core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for the settlement core. A nil *Metrics is
// valid and records nothing, so components can be wired without
// instrumentation in tests.
type Metrics struct {
	gatewayRequests     *prometheus.CounterVec
	reservationsSwept   prometheus.Counter
	reconcilerRuns      *prometheus.CounterVec
	reconcilerAnomalies prometheus.Counter
}

// New creates the collectors and registers them on the given registerer
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ftreserve_gateway_requests_total",
			Help: "Gateway calls to the external FT API by operation and outcome.",
		}, []string{"operation", "outcome"}),
		reservationsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ftreserve_reservations_swept_total",
			Help: "Pending reservations transitioned to expired by sweeps.",
		}),
		reconcilerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ftreserve_reconciler_runs_total",
			Help: "Reconciliation passes by result.",
		}, []string{"result"}),
		reconcilerAnomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ftreserve_reconciler_anomalies_total",
			Help: "External records flagged for manual review.",
		}),
	}

	reg.MustRegister(
		m.gatewayRequests,
		m.reservationsSwept,
		m.reconcilerRuns,
		m.reconcilerAnomalies,
	)

	return m
}

// RecordGatewayRequest counts one gateway call and its outcome
// ("ok" for success, otherwise the gateway outcome kind)
func (m *Metrics) RecordGatewayRequest(operation, outcome string) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordSweep counts reservations expired by a sweep
func (m *Metrics) RecordSweep(count int64) {
	if m == nil {
		return
	}
	m.reservationsSwept.Add(float64(count))
}

// RecordReconcilerRun counts one reconciliation pass ("ok" or "error")
func (m *Metrics) RecordReconcilerRun(result string) {
	if m == nil {
		return
	}
	m.reconcilerRuns.WithLabelValues(result).Inc()
}

// RecordAnomalies counts records flagged for manual review
func (m *Metrics) RecordAnomalies(count int) {
	if m == nil {
		return
	}
	m.reconcilerAnomalies.Add(float64(count))
}
