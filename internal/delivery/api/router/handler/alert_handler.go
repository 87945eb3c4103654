package handler

import (
	"log/slog"
	"net/http"
	"time"

	"alerts/config"
	"alerts/internal/delivery/api/response"
	deliverycontext "alerts/internal/delivery/context"
	"alerts/internal/domain/entity"
	"alerts/internal/domain/service"
	"alerts/internal/errors"
	"alerts/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AlertHandler triggers evaluation cycles and alert tests
type AlertHandler struct {
	alerts       usecase.AlertUsecase
	publisher    service.EventPublisher
	logger       *slog.Logger
	asyncEnabled bool
}

// AlertHandlerParams holds dependencies for AlertHandler, injected by Fx.
type AlertHandlerParams struct {
	fx.In

	Config    *config.Config
	Alerts    usecase.AlertUsecase
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

func NewAlertHandler(params AlertHandlerParams) *AlertHandler {
	return &AlertHandler{
		alerts:       params.Alerts,
		publisher:    params.Publisher,
		logger:       params.Logger,
		asyncEnabled: params.Config.PubSub != nil && params.Config.PubSub.Provider != "",
	}
}

type runAlertsResponse struct {
	OK    bool `json:"ok"`
	Force bool `json:"force"`
}

type runAlertsDebugResponse struct {
	Debug   bool                 `json:"debug"`
	Summary *entity.CycleSummary `json:"summary"`
}

type runAlertsQueuedResponse struct {
	OK      bool   `json:"ok"`
	Queued  bool   `json:"queued"`
	CycleID string `json:"cycleId"`
}

type testAlertResponse struct {
	OK      bool                 `json:"ok"`
	Summary *entity.AlertSummary `json:"summary"`
}

// RunAlerts runs one cycle: POST /api/run-alerts?force=&dryRun=&debug=&async=
func (h *AlertHandler) RunAlerts(c echo.Context) error {
	ctx := c.Request().Context()
	opts := usecase.CycleOptions{
		Force:   queryFlag(c.QueryParam("force")),
		DryRun:  queryFlag(c.QueryParam("dryRun")),
		Debug:   queryFlag(c.QueryParam("debug")),
		Trigger: usecase.TriggerAPI,
	}

	// A summary can only be returned synchronously. Without Pub/Sub nothing would consume the event.
	if h.asyncEnabled && queryFlag(c.QueryParam("async")) && !opts.DryRun && !opts.Debug {
		event := &service.CycleEvent{
			RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
			CycleID:     uuid.NewString(),
			Source:      usecase.TriggerAPI,
			Force:       opts.Force,
			RequestedAt: time.Now().UTC(),
		}
		if err := h.publisher.PublishCycleEvent(ctx, event); err != nil {
			return errors.Wrap(err, "failed to queue alert cycle")
		}

		return response.JSON(c, http.StatusAccepted, runAlertsQueuedResponse{OK: true, Queued: true, CycleID: event.CycleID})
	}

	summary, err := h.alerts.RunCycle(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "alert cycle failed")
	}

	if opts.DryRun || opts.Debug {
		return response.JSON(c, http.StatusOK, runAlertsDebugResponse{Debug: opts.Debug, Summary: summary})
	}

	return response.JSON(c, http.StatusOK, runAlertsResponse{OK: true, Force: opts.Force})
}

// TestAlert evaluates one alert against live listings and always notifies
func (h *AlertHandler) TestAlert(c echo.Context) error {
	var req testAlertRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	summary, err := h.alerts.TestAlert(c.Request().Context(), req.Endpoint, req.Alert.toEntity())
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, testAlertResponse{OK: true, Summary: summary})
}
