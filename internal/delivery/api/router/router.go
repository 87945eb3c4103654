// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"net/http"

	"alerts/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AlertHandler        *handler.AlertHandler
	SubscriptionHandler *handler.SubscriptionHandler
	CatalogHandler      *handler.CatalogHandler
	MetricsHandler      http.Handler `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	alertHandler        *handler.AlertHandler
	subscriptionHandler *handler.SubscriptionHandler
	catalogHandler      *handler.CatalogHandler
	metricsHandler      http.Handler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		alertHandler:        params.AlertHandler,
		subscriptionHandler: params.SubscriptionHandler,
		catalogHandler:      params.CatalogHandler,
		metricsHandler:      params.MetricsHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	if r.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(r.metricsHandler))
	}

	api := e.Group("/api")

	// Alert cycles
	api.POST("/run-alerts", r.alertHandler.RunAlerts)
	api.POST("/test-alert", r.alertHandler.TestAlert)

	// Subscriptions
	api.POST("/subscribe", r.subscriptionHandler.Subscribe)
	api.POST("/unsubscribe", r.subscriptionHandler.Unsubscribe)
	api.POST("/alerts", r.subscriptionHandler.UpdateAlerts)
	api.POST("/test-notification", r.subscriptionHandler.TestNotification)
	api.GET("/next-notification", r.subscriptionHandler.NextNotification)
	api.GET("/debug/subscription", r.subscriptionHandler.DebugSubscription)

	// Catalog
	api.GET("/items", r.catalogHandler.Items)
	api.GET("/stores", r.catalogHandler.Stores)
}
