package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"alerts/config"
	"alerts/internal/delivery/api/router"
	"alerts/internal/delivery/api/router/handler"
	deliverycontext "alerts/internal/delivery/context"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/service"
	"alerts/internal/errors"
	mockSvc "alerts/internal/mocks/service"
	mockUsecase "alerts/internal/mocks/usecase"
	"alerts/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	echo          *echo.Echo
	alerts        *mockUsecase.MockAlertUsecase
	subscriptions *mockUsecase.MockSubscriptionUsecase
	catalog       *mockUsecase.MockCatalogUsecase
	publisher     *mockSvc.MockEventPublisher
}

func newAPIFixture(t *testing.T, mutate ...func(*config.Config)) *apiFixture {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	f := &apiFixture{
		alerts:        mockUsecase.NewMockAlertUsecase(t),
		subscriptions: mockUsecase.NewMockSubscriptionUsecase(t),
		catalog:       mockUsecase.NewMockCatalogUsecase(t),
		publisher:     mockSvc.NewMockEventPublisher(t),
	}

	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.PubSub = &config.PubSubConfig{Provider: "local", LocalEndpoint: "http://localhost:8081/push"}
	for _, m := range mutate {
		m(cfg)
	}

	f.echo = NewEcho(cfg, logger, router.RouterParams{
		AlertHandler: handler.NewAlertHandler(handler.AlertHandlerParams{
			Config:    cfg,
			Alerts:    f.alerts,
			Publisher: f.publisher,
			Logger:    logger,
		}),
		SubscriptionHandler: handler.NewSubscriptionHandler(f.subscriptions),
		CatalogHandler:      handler.NewCatalogHandler(f.catalog),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("alerts_cycles_total 1\n"))
		}),
	})

	return f
}

func (f *apiFixture) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	return rec
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestServer_HealthAndMetrics(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))

	rec = f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alerts_cycles_total")
}

func TestServer_RunAlerts(t *testing.T) {
	t.Run("dry run returns the summary", func(t *testing.T) {
		f := newAPIFixture(t)
		f.alerts.EXPECT().
			RunCycle(mock.Anything, usecase.CycleOptions{DryRun: true, Debug: true, Trigger: usecase.TriggerAPI}).
			Return(&entity.CycleSummary{DryRun: true, SubscriptionsProcessed: 1, AlertsEvaluated: 2}, nil)

		rec := f.do(http.MethodPost, "/api/run-alerts?dryRun=1&debug=1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Debug   bool                `json:"debug"`
			Summary entity.CycleSummary `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Debug)
		assert.True(t, body.Summary.DryRun)
		assert.Equal(t, 2, body.Summary.AlertsEvaluated)
	})

	t.Run("plain run acknowledges", func(t *testing.T) {
		f := newAPIFixture(t)
		f.alerts.EXPECT().
			RunCycle(mock.Anything, usecase.CycleOptions{Force: true, Trigger: usecase.TriggerAPI}).
			Return(&entity.CycleSummary{Force: true}, nil)

		rec := f.do(http.MethodPost, "/api/run-alerts?force=1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true,"force":true}`, rec.Body.String())
	})

	t.Run("async publishes a cycle event", func(t *testing.T) {
		f := newAPIFixture(t)
		f.publisher.EXPECT().
			PublishCycleEvent(mock.Anything, mock.MatchedBy(func(event *service.CycleEvent) bool {
				return event.Source == usecase.TriggerAPI && event.Force && event.RequestID == "req-42" && event.CycleID != ""
			})).
			Return(nil)

		rec := f.do(http.MethodPost, "/api/run-alerts?async=1&force=true", "", deliverycontext.HeaderXRequestID, "req-42")
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Contains(t, rec.Body.String(), `"queued":true`)
	})

	t.Run("async without pubsub runs inline", func(t *testing.T) {
		f := newAPIFixture(t, func(cfg *config.Config) { cfg.PubSub = nil })
		f.alerts.EXPECT().
			RunCycle(mock.Anything, usecase.CycleOptions{Trigger: usecase.TriggerAPI}).
			Return(&entity.CycleSummary{}, nil)

		rec := f.do(http.MethodPost, "/api/run-alerts?async=1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true,"force":false}`, rec.Body.String())
	})

	t.Run("failed cycle is a 500 envelope", func(t *testing.T) {
		f := newAPIFixture(t)
		f.alerts.EXPECT().
			RunCycle(mock.Anything, mock.Anything).
			Return(&entity.CycleSummary{}, errors.New("enumerate failed"))

		rec := f.do(http.MethodPost, "/api/run-alerts", "", deliverycontext.HeaderXRequestID, "req-7")
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.Empty(t, body.Error.Details)
		assert.Equal(t, "req-7", body.Meta.RequestID)
	})
}

func TestServer_Subscribe(t *testing.T) {
	t.Run("legacy shape with comma separated stores", func(t *testing.T) {
		f := newAPIFixture(t)
		f.subscriptions.EXPECT().
			Subscribe(mock.Anything, usecase.SubscribeInput{
				Subscription: entity.PushSubscription{
					Endpoint: "https://push.example.com/1",
					Keys:     entity.PushKeys{P256dh: "p", Auth: "a"},
				},
				Keywords: []string{"billy"},
				StoreIDs: []string{"294", "203"},
				Alerts: []entity.Alert{
					{ID: "a1", Keywords: []string{"lamp"}, StoreIDs: []string{"294"}, Active: true},
				},
			}).
			Return(&entity.SubscriberRecord{}, nil)

		rec := f.do(http.MethodPost, "/api/subscribe", `{
			"subscription": {"endpoint": "https://push.example.com/1", "keys": {"p256dh": "p", "auth": "a"}},
			"keywords": ["billy"],
			"storeIds": "294, 203",
			"alerts": [{"id": "a1", "keywords": ["lamp"], "storeIds": [294]}]
		}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	})

	t.Run("use case validation error", func(t *testing.T) {
		f := newAPIFixture(t)
		f.subscriptions.EXPECT().
			Subscribe(mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrMissingSubscription)

		rec := f.do(http.MethodPost, "/api/subscribe", `{"storeIds": ["294"]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISSING_SUBSCRIPTION", decodeError(t, rec).Error.Code)
	})

	t.Run("alert without id fails validation", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(http.MethodPost, "/api/subscribe", `{"subscription": {"endpoint": "e"}, "alerts": [{"keywords": ["x"]}]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		assert.Contains(t, body.Error.Details, "alerts[0].id is required")
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(http.MethodPost, "/api/subscribe", `{"subscription":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Error.Code)
	})
}

func TestServer_SubscriptionEndpoints(t *testing.T) {
	ctx := mock.Anything
	const endpoint = "https://push.example.com/1"

	t.Run("unsubscribe", func(t *testing.T) {
		f := newAPIFixture(t)
		f.subscriptions.EXPECT().Unsubscribe(ctx, endpoint).Return(nil)

		rec := f.do(http.MethodPost, "/api/unsubscribe", `{"endpoint":"`+endpoint+`"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update alerts returns stored alerts", func(t *testing.T) {
		f := newAPIFixture(t)
		stored := []entity.Alert{{ID: "a1", Keywords: []string{"lamp"}, StoreIDs: []string{"294"}, Active: false}}
		f.subscriptions.EXPECT().
			UpdateAlerts(ctx, endpoint, []entity.Alert{{ID: "a1", Keywords: []string{"lamp"}, StoreIDs: []string{"294"}, Active: false}}).
			Return(&entity.SubscriberRecord{Alerts: stored}, nil)

		rec := f.do(http.MethodPost, "/api/alerts", `{"endpoint":"`+endpoint+`","alerts":[{"id":"a1","keywords":["lamp"],"storeIds":["294"],"active":false}]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"a1"`)
	})

	t.Run("test notification unknown subscription", func(t *testing.T) {
		f := newAPIFixture(t)
		f.subscriptions.EXPECT().SendTestNotification(ctx, endpoint).Return(nil, domainerrors.ErrSubscriptionNotFound)

		rec := f.do(http.MethodPost, "/api/test-notification", `{"endpoint":"`+endpoint+`"}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "SUBSCRIPTION_NOT_FOUND", decodeError(t, rec).Error.Code)
	})

	t.Run("push failure is a bad gateway", func(t *testing.T) {
		f := newAPIFixture(t)
		f.subscriptions.EXPECT().
			SendTestNotification(ctx, endpoint).
			Return(nil, domainerrors.ErrPushFailed.WithDetails("push failed: 410 gone"))

		rec := f.do(http.MethodPost, "/api/test-notification", `{"endpoint":"`+endpoint+`"}`)
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "PUSH_FAILED", decodeError(t, rec).Error.Code)
	})

	t.Run("debug subscription", func(t *testing.T) {
		f := newAPIFixture(t)
		f.subscriptions.EXPECT().
			GetSubscription(ctx, endpoint).
			Return(&entity.SubscriberRecord{Endpoint: endpoint, LastSeenIDs: []string{"x-1"}}, nil)

		rec := f.do(http.MethodGet, "/api/debug/subscription?endpoint="+endpoint, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"lastSeenIds":["x-1"]`)
	})

	t.Run("next notification", func(t *testing.T) {
		f := newAPIFixture(t)
		f.subscriptions.EXPECT().
			NextNotification(ctx, endpoint).
			Return(&entity.NotificationPayload{Title: "BILLY", URL: "/?tab=listings", NotificationID: "n-1"}, nil).
			Once()
		f.subscriptions.EXPECT().
			NextNotification(ctx, endpoint).
			Return(nil, domainerrors.ErrMailboxEmpty).
			Once()

		rec := f.do(http.MethodGet, "/api/next-notification?endpoint="+endpoint, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"payload":{"title":"BILLY"`)

		rec = f.do(http.MethodGet, "/api/next-notification?endpoint="+endpoint, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NO_NOTIFICATION", decodeError(t, rec).Error.Code)
	})
}

func TestServer_TestAlert(t *testing.T) {
	t.Run("requires an alert", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(http.MethodPost, "/api/test-alert", `{"endpoint":"e"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeError(t, rec).Error.Code)
	})

	t.Run("returns the alert summary", func(t *testing.T) {
		f := newAPIFixture(t)
		f.alerts.EXPECT().
			TestAlert(mock.Anything, "e", entity.Alert{ID: "a1", Keywords: []string{"billy"}, StoreIDs: []string{"294"}, Active: true}).
			Return(&entity.AlertSummary{AlertID: "a1", Notified: true, Queued: true}, nil)

		rec := f.do(http.MethodPost, "/api/test-alert", `{"endpoint":"e","alert":{"id":"a1","keywords":["billy"],"storeIds":"294"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"notified":true`)
	})
}

func TestServer_Catalog(t *testing.T) {
	t.Run("items passes query through", func(t *testing.T) {
		f := newAPIFixture(t)
		f.catalog.EXPECT().
			SearchItems(mock.Anything, usecase.ItemsQuery{
				StoreIDs:     []string{"294"},
				Query:        "billy  shelf",
				LanguageCode: "pl",
				Size:         24,
				AllPages:     true,
				Debug:        true,
			}).
			Return(&usecase.ItemsResult{
				Content: []json.RawMessage{json.RawMessage(`{"id":"b-1"}`)},
				Debug:   &usecase.ItemsDebug{StoreIDList: []string{"294"}, Query: "billy shelf", RawCount: 1, NormalizedCount: 1},
			}, nil)

		rec := f.do(http.MethodGet, "/api/items?storeIds=294&query=billy%20%20shelf&languageCode=pl&size=24&allPages=1&debug=1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"content":[{"id":"b-1"}]`)
		assert.Contains(t, rec.Body.String(), `"normalizedCount":1`)
	})

	t.Run("missing store ids", func(t *testing.T) {
		f := newAPIFixture(t)
		f.catalog.EXPECT().
			SearchItems(mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrMissingStoreIDs)

		rec := f.do(http.MethodGet, "/api/items?query=billy", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISSING_STORE_IDS", decodeError(t, rec).Error.Code)
	})

	t.Run("stores", func(t *testing.T) {
		f := newAPIFixture(t)
		f.catalog.EXPECT().Stores().Return([]entity.Store{{ID: "294", Name: "Warszawa"}})

		rec := f.do(http.MethodGet, "/api/stores", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"stores":[{"id":"294","name":"Warszawa"}]}`, rec.Body.String())
	})
}

func TestServer_UnknownRoute(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/api/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HTTP_ERROR", decodeError(t, rec).Error.Code)
}
