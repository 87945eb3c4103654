package repository

import (
	"context"

	"alerts/internal/domain/entity"
)

// SubscriberPage is one page of stored subscriber keys.
type SubscriberPage struct {
	Keys   []string
	Cursor string
}

// SubscriberRepository persists subscriber records keyed by endpoint hash.
type SubscriberRepository interface {
	// Key returns the storage key for an endpoint.
	Key(endpoint string) string

	// Get loads a record by storage key, returning ErrKeyNotFound when absent.
	Get(ctx context.Context, key string) (*entity.SubscriberRecord, error)

	// GetByEndpoint loads a record by its push endpoint.
	GetByEndpoint(ctx context.Context, endpoint string) (*entity.SubscriberRecord, error)

	// Put writes the whole record under the key derived from its endpoint.
	Put(ctx context.Context, record *entity.SubscriberRecord) error

	// DeleteByEndpoint removes the record for an endpoint.
	DeleteByEndpoint(ctx context.Context, endpoint string) error

	// List pages through all stored subscriber keys.
	List(ctx context.Context, cursor string, limit int) (*SubscriberPage, error)
}
