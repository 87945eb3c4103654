package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertMetrics_ExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAlertMetrics(reg)

	m.ObserveCycle("http", 250*time.Millisecond, nil)
	m.ObserveCycle("http", time.Second, errors.New("boom"))
	m.IncNotification("mailbox", OutcomeQueued)
	m.IncNotification("mailbox", OutcomeQueued)
	m.IncCatalogFetch(nil)
	m.IncCatalogFetch(errors.New("502"))
	m.IncSkipped("")
	m.IncCycleEvent("scheduler", nil)
	m.IncCycleEvent("api", errors.New("unavailable"))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assert.InDelta(t, 1, counterValue(t, mfs, "alerts_cycles_total", map[string]string{"trigger": "http", "outcome": "success"}), 0)
	assert.InDelta(t, 1, counterValue(t, mfs, "alerts_cycles_total", map[string]string{"trigger": "http", "outcome": "failure"}), 0)
	assert.InDelta(t, 2, counterValue(t, mfs, "alerts_notifications_total", map[string]string{"mode": "mailbox", "outcome": "queued"}), 0)
	assert.InDelta(t, 1, counterValue(t, mfs, "alerts_catalog_fetches_total", map[string]string{"outcome": "failure"}), 0)
	assert.InDelta(t, 1, counterValue(t, mfs, "alerts_records_skipped_total", map[string]string{"reason": "unknown"}), 0)
	assert.InDelta(t, 1, counterValue(t, mfs, "alerts_cycle_events_published_total", map[string]string{"source": "scheduler", "outcome": "success"}), 0)
	assert.InDelta(t, 1, counterValue(t, mfs, "alerts_cycle_events_published_total", map[string]string{"source": "api", "outcome": "failure"}), 0)

	histogram := findMetric(t, mfs, "alerts_cycle_duration_seconds", map[string]string{"trigger": "http"}).GetHistogram()
	assert.Equal(t, uint64(2), histogram.GetSampleCount())
	assert.InDelta(t, 1.25, histogram.GetSampleSum(), 1e-9)
}

func TestAlertMetrics_NilSafe(t *testing.T) {
	var m *AlertMetrics
	m.ObserveCycle("x", time.Second, nil)
	m.IncNotification("mailbox", OutcomeSent)
	m.IncCatalogFetch(nil)
	m.IncSkipped("locked")
	m.IncCycleEvent("api", nil)

	unregistered := NewAlertMetrics(nil)
	unregistered.ObserveCycle("x", time.Second, nil)
	unregistered.IncSkipped("locked")
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewAlertMetrics(reg).IncSkipped("locked")

	rec := httptest.NewRecorder()
	NewHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `alerts_records_skipped_total{reason="locked"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func findMetric(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	t.Helper()

	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)

	return nil
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()

	return findMetric(t, mfs, name, labels).GetCounter().GetValue()
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if value, ok := want[pair.GetName()]; ok && value == pair.GetValue() {
			matched++
		}
	}

	return matched == len(want)
}
