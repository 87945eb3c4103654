// Package kv maps subscriber records and mailboxes onto any KeyValueStore and QueueStore backend.
package kv

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"alerts/internal/domain/constants"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/repository"
	"alerts/internal/errors"
	"alerts/internal/util"
)

// subscriberRepository implements the repository.SubscriberRepository interface.
type subscriberRepository struct {
	store repository.KeyValueStore
	now   func() time.Time
}

// NewSubscriberRepository is the constructor for subscriberRepository.
func NewSubscriberRepository(store repository.KeyValueStore) repository.SubscriberRepository {
	return &subscriberRepository{store: store, now: time.Now}
}

func (repo *subscriberRepository) Key(endpoint string) string {
	return constants.SubscriberKeyPrefix + util.HashEndpoint(endpoint)
}

func (repo *subscriberRepository) Get(ctx context.Context, key string) (*entity.SubscriberRecord, error) {
	raw, err := repo.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var record entity.SubscriberRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, domainerrors.NewStorageError("decode", key, errors.WithStack(err))
	}
	if record.Endpoint == "" {
		record.Endpoint = record.Subscription.Endpoint
	}

	return &record, nil
}

func (repo *subscriberRepository) GetByEndpoint(ctx context.Context, endpoint string) (*entity.SubscriberRecord, error) {
	return repo.Get(ctx, repo.Key(endpoint))
}

// Put stamps UpdatedAt (and CreatedAt on first write) and replaces the whole record.
func (repo *subscriberRepository) Put(ctx context.Context, record *entity.SubscriberRecord) error {
	if record.Endpoint == "" {
		record.Endpoint = record.Subscription.Endpoint
	}
	if record.Endpoint == "" {
		return domainerrors.ErrMissingEndpoint
	}

	now := repo.now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	raw, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "encode subscriber record")
	}

	return repo.store.Put(ctx, repo.Key(record.Endpoint), raw)
}

func (repo *subscriberRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	return repo.store.Delete(ctx, repo.Key(endpoint))
}

func (repo *subscriberRepository) List(ctx context.Context, cursor string, limit int) (*repository.SubscriberPage, error) {
	page, err := repo.store.List(ctx, constants.SubscriberKeyPrefix, cursor, limit)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(page.Keys))
	for _, key := range page.Keys {
		if strings.HasPrefix(key, constants.SubscriberKeyPrefix) {
			keys = append(keys, key)
		}
	}

	return &repository.SubscriberPage{Keys: keys, Cursor: page.Cursor}, nil
}
