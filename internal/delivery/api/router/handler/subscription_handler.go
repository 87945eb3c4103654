package handler

import (
	"net/http"

	"alerts/internal/delivery/api/response"
	"alerts/internal/domain/entity"
	"alerts/internal/domain/search"
	"alerts/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandler manages push subscriptions and their mailboxes
type SubscriptionHandler struct {
	subscriptions usecase.SubscriptionUsecase
}

func NewSubscriptionHandler(subscriptions usecase.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

type updateAlertsResponse struct {
	OK     bool           `json:"ok"`
	Alerts []entity.Alert `json:"alerts"`
}

type recordResponse struct {
	Record *entity.SubscriberRecord `json:"record"`
}

type nextNotificationResponse struct {
	Payload *entity.NotificationPayload `json:"payload"`
}

func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.subscriptions.Subscribe(c.Request().Context(), usecase.SubscribeInput{
		Subscription: req.Subscription,
		Keywords:     req.Keywords,
		StoreIDs:     search.ParseStoreIDList(req.StoreIDs),
		Alerts:       toAlerts(req.Alerts),
	})
	if err != nil {
		return err
	}

	return response.Ack(c)
}

func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	var req endpointRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, err.Error())
	}

	if err := h.subscriptions.Unsubscribe(c.Request().Context(), req.Endpoint); err != nil {
		return err
	}

	return response.Ack(c)
}

// UpdateAlerts replaces the alert list of a subscription
func (h *SubscriptionHandler) UpdateAlerts(c echo.Context) error {
	var req updateAlertsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.subscriptions.UpdateAlerts(c.Request().Context(), req.Endpoint, toAlerts(req.Alerts))
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, updateAlertsResponse{OK: true, Alerts: record.Alerts})
}

func (h *SubscriptionHandler) TestNotification(c echo.Context) error {
	var req endpointRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, err.Error())
	}

	if _, err := h.subscriptions.SendTestNotification(c.Request().Context(), req.Endpoint); err != nil {
		return err
	}

	return response.Ack(c)
}

// DebugSubscription returns the stored record, seen state included
func (h *SubscriptionHandler) DebugSubscription(c echo.Context) error {
	record, err := h.subscriptions.GetSubscription(c.Request().Context(), c.QueryParam("endpoint"))
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, recordResponse{Record: record})
}

// NextNotification is polled by the service worker after a wake-up push
func (h *SubscriptionHandler) NextNotification(c echo.Context) error {
	payload, err := h.subscriptions.NextNotification(c.Request().Context(), c.QueryParam("endpoint"))
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, nextNotificationResponse{Payload: payload})
}
