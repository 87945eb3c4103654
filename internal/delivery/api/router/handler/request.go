package handler

import (
	"strings"

	"alerts/internal/domain/entity"
	"alerts/internal/domain/search"
)

// alertRequest is an alert as sent by the web client. Active defaults to true.
type alertRequest struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	StoreIDs any      `json:"storeIds"` // Array of ids or a comma separated string
	Active   *bool    `json:"active"`
}

func (r alertRequest) toEntity() entity.Alert {
	return entity.Alert{
		ID:       r.ID,
		Name:     r.Name,
		Keywords: r.Keywords,
		StoreIDs: search.ParseStoreIDList(r.StoreIDs),
		Active:   r.Active == nil || *r.Active,
	}
}

func toAlerts(requests []alertRequest) []entity.Alert {
	alerts := make([]entity.Alert, 0, len(requests))
	for _, r := range requests {
		alerts = append(alerts, r.toEntity())
	}

	return alerts
}

type subscribeRequest struct {
	Subscription entity.PushSubscription `json:"subscription"`
	Keywords     []string                `json:"keywords"`
	StoreIDs     any                     `json:"storeIds"`
	Alerts       []alertRequest          `json:"alerts" validate:"dive"`
}

type endpointRequest struct {
	Endpoint string `json:"endpoint"`
}

type updateAlertsRequest struct {
	Endpoint string         `json:"endpoint"`
	Alerts   []alertRequest `json:"alerts" validate:"dive"`
}

type testAlertRequest struct {
	Endpoint string        `json:"endpoint"`
	Alert    *alertRequest `json:"alert" validate:"required"`
}

// queryFlag reads 1/true style switches from the query string.
func queryFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	}

	return false
}
