package usecase

import (
	"context"

	"alerts/internal/domain/entity"
)

// SubscribeInput is the body of a subscribe request. Keywords and StoreIDs
// are the legacy single-filter shape.
type SubscribeInput struct {
	Subscription entity.PushSubscription
	Keywords     []string
	StoreIDs     []string
	Alerts       []entity.Alert
}

// SubscriptionUsecase defines the subscription management use cases
type SubscriptionUsecase interface {
	// Subscribe creates or replaces the record for a push subscription, keeping its seen state
	Subscribe(ctx context.Context, input SubscribeInput) (*entity.SubscriberRecord, error)

	// Unsubscribe removes the record for an endpoint
	Unsubscribe(ctx context.Context, endpoint string) error

	// UpdateAlerts replaces the alert list of an existing record
	UpdateAlerts(ctx context.Context, endpoint string, alerts []entity.Alert) (*entity.SubscriberRecord, error)

	// GetSubscription returns the stored record for an endpoint
	GetSubscription(ctx context.Context, endpoint string) (*entity.SubscriberRecord, error)

	// SendTestNotification delivers a fixed notification to an existing subscription
	SendTestNotification(ctx context.Context, endpoint string) (*entity.NotificationPayload, error)

	// NextNotification pops the oldest mailbox payload for an endpoint
	NextNotification(ctx context.Context, endpoint string) (*entity.NotificationPayload, error)
}
