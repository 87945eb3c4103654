package repository

import (
	"context"

	"alerts/internal/domain/entity"
)

// MailboxRepository holds payloads for clients that receive payload-less pushes.
type MailboxRepository interface {
	// Enqueue appends a payload for the endpoint with the configured expiry.
	Enqueue(ctx context.Context, endpoint string, payload *entity.NotificationPayload) error

	// Dequeue pops the oldest payload, returning ErrKeyNotFound when empty.
	Dequeue(ctx context.Context, endpoint string) (*entity.NotificationPayload, error)
}
