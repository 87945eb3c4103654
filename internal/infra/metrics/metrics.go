// Package metrics exposes Prometheus collectors for evaluation cycles and push delivery.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "alerts"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeQueued  = "queued"
	OutcomeSent    = "sent"
)

// AlertMetrics records cycle, catalog and delivery counters. A nil receiver or a
// value built without a registerer records nothing.
type AlertMetrics struct {
	cycleDuration *prometheus.HistogramVec
	cycles        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	catalog       *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	cycleEvents   *prometheus.CounterVec
}

// NewAlertMetrics registers the alert metrics on the provided registerer.
func NewAlertMetrics(reg prometheus.Registerer) *AlertMetrics {
	if reg == nil {
		return &AlertMetrics{}
	}

	cycleDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cycle_duration_seconds",
		Help:      "Duration of alert evaluation cycles in seconds.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"trigger"})
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cycles_total",
		Help:      "Alert evaluation cycles by trigger and outcome.",
	}, []string{"trigger", "outcome"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Notifications by delivery mode and outcome.",
	}, []string{"mode", "outcome"})
	catalog := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_fetches_total",
		Help:      "Per-store catalog fetches by outcome.",
	}, []string{"outcome"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_skipped_total",
		Help:      "Subscriber records skipped during a cycle by reason.",
	}, []string{"reason"})

	cycleEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cycle_events_published_total",
		Help:      "Cycle request events published to Pub/Sub by source and outcome.",
	}, []string{"source", "outcome"})

	reg.MustRegister(cycleDuration, cycles, notifications, catalog, skipped, cycleEvents)

	return &AlertMetrics{
		cycleDuration: cycleDuration,
		cycles:        cycles,
		notifications: notifications,
		catalog:       catalog,
		skipped:       skipped,
		cycleEvents:   cycleEvents,
	}
}

// ObserveCycle records one finished cycle.
func (m *AlertMetrics) ObserveCycle(trigger string, duration time.Duration, err error) {
	if m == nil || m.cycles == nil {
		return
	}
	trigger = normalizeLabel(trigger)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.cycleDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	m.cycles.WithLabelValues(trigger, outcome).Inc()
}

// IncNotification counts a notification attempt for the delivery mode.
func (m *AlertMetrics) IncNotification(mode, outcome string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(mode), normalizeLabel(outcome)).Inc()
}

// IncCatalogFetch counts one per-store fetch.
func (m *AlertMetrics) IncCatalogFetch(err error) {
	if m == nil || m.catalog == nil {
		return
	}
	if err != nil {
		m.catalog.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	m.catalog.WithLabelValues(OutcomeSuccess).Inc()
}

// IncSkipped counts a record that was not evaluated.
func (m *AlertMetrics) IncSkipped(reason string) {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCycleEvent counts one publish attempt of a cycle request.
func (m *AlertMetrics) IncCycleEvent(source string, err error) {
	if m == nil || m.cycleEvents == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.cycleEvents.WithLabelValues(normalizeLabel(source), outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}

	return value
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// NewHandler serves the registry in the Prometheus exposition format.
func NewHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Module provides the registry, the alert metrics and the /metrics handler
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewRegistry,
		func(reg *prometheus.Registry) prometheus.Registerer { return reg },
		NewAlertMetrics,
		NewHandler,
	),
)
