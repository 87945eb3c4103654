package service

import (
	"context"

	"alerts/internal/domain/entity"
)

// DeliveryResult describes an accepted push.
type DeliveryResult struct {
	StatusCode int
	Encrypted  bool
}

// PushSender delivers one Web Push message to a subscription endpoint.
type PushSender interface {
	// Send posts payload encrypted for the subscription, or an empty wake-up
	// message when payload is nil.
	Send(ctx context.Context, subscription entity.PushSubscription, payload []byte) (*DeliveryResult, error)
}
