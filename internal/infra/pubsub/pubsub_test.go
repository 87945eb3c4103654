package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"alerts/config"
	"alerts/internal/domain/constants"
	"alerts/internal/domain/service"
	"alerts/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestLocalHTTPPublisher_PostsPushMessage(t *testing.T) {
	var (
		received PushMessage
		header   http.Header
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))
	event := &service.CycleEvent{
		RequestID:   "req-1",
		CycleID:     "cycle-1",
		Source:      "api",
		Force:       true,
		RequestedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, publisher.PublishCycleEvent(context.Background(), event))

	assert.Equal(t, "req-1", header.Get("X-Request-Id"))
	assert.Equal(t, "cycle-1", received.Message.MessageID)
	assert.Equal(t, "true", received.Message.Attributes["force"])
	assert.Equal(t, "api", received.Message.Attributes["source"])

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.CycleEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *event, decoded)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))
	err := publisher.PublishCycleEvent(context.Background(), &service.CycleEvent{CycleID: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewEventPublisher(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name    string
		pubsub  *config.PubSubConfig
		wantErr string
	}{
		{name: "not configured", pubsub: nil},
		{name: "empty provider", pubsub: &config.PubSubConfig{}},
		{name: "local", pubsub: &config.PubSubConfig{Provider: constants.PubSubProviderLocal, LocalEndpoint: "http://localhost:1/push"}},
		{name: "local without endpoint", pubsub: &config.PubSubConfig{Provider: constants.PubSubProviderLocal}, wantErr: "local endpoint"},
		{name: "google without project", pubsub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, TopicID: "t"}, wantErr: "project ID"},
		{name: "google without topic", pubsub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, ProjectID: "p"}, wantErr: "topic ID"},
		{name: "unknown", pubsub: &config.PubSubConfig{Provider: "kafka"}, wantErr: "unknown pubsub provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			cfg := &config.Config{PubSub: tt.pubsub}

			publisher, err := NewEventPublisher(PublisherParams{Lc: lc, Ctx: context.Background(), Config: cfg, Logger: logger})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}
			require.NoError(t, err)
			require.NotNil(t, publisher)

			lc.RequireStart()
			lc.RequireStop()
		})
	}
}

func TestNewEventPublisher_CountsPublishOutcomes(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderLocal, LocalEndpoint: server.URL}}

	publisher, err := NewEventPublisher(PublisherParams{
		Lc:      lc,
		Ctx:     context.Background(),
		Config:  cfg,
		Logger:  slog.New(slog.DiscardHandler),
		Metrics: metrics.NewAlertMetrics(reg),
	})
	require.NoError(t, err)

	require.NoError(t, publisher.PublishCycleEvent(context.Background(), &service.CycleEvent{CycleID: "c-1", Source: "scheduler"}))
	status.Store(http.StatusInternalServerError)
	require.Error(t, publisher.PublishCycleEvent(context.Background(), &service.CycleEvent{CycleID: "c-2", Source: "scheduler"}))

	expected := `
# HELP alerts_cycle_events_published_total Cycle request events published to Pub/Sub by source and outcome.
# TYPE alerts_cycle_events_published_total counter
alerts_cycle_events_published_total{outcome="failure",source="scheduler"} 1
alerts_cycle_events_published_total{outcome="success",source="scheduler"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "alerts_cycle_events_published_total"))
}
