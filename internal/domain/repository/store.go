// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"alerts/internal/errors"
)

// ErrKeyNotFound is returned by stores when a key does not exist or a queue is empty.
var ErrKeyNotFound = errors.New("key not found")

// KeyPage is one page of a prefix listing. An empty Cursor means the listing is complete.
type KeyPage struct {
	Keys   []string
	Cursor string
}

// KeyValueStore is the durable key-value surface records are kept in.
type KeyValueStore interface {
	// Get returns the stored value or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put creates or replaces the value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns keys with the given prefix, resuming from cursor.
	List(ctx context.Context, prefix, cursor string, limit int) (*KeyPage, error)
}

// QueueStore is a FIFO per key whose entries expire after a TTL.
type QueueStore interface {
	// Push appends a value and refreshes the queue expiry.
	Push(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Pop removes and returns the oldest value or ErrKeyNotFound.
	Pop(ctx context.Context, key string) ([]byte, error)
}

// RecordLocker serializes work on one record across overlapping cycles.
type RecordLocker interface {
	// TryLock returns ok=false without error when another owner holds the lock.
	TryLock(ctx context.Context, key string) (unlock func(context.Context) error, ok bool, err error)
}
