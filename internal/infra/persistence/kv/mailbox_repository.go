package kv

import (
	"context"
	"encoding/json"
	"time"

	"alerts/internal/domain/constants"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/repository"
	"alerts/internal/errors"
	"alerts/internal/util"
)

const defaultMailboxTTL = 300 * time.Second

// mailboxRepository implements the repository.MailboxRepository interface.
type mailboxRepository struct {
	queue repository.QueueStore
	ttl   time.Duration
}

// NewMailboxRepository is the constructor for mailboxRepository. Entries expire ttl after the last enqueue.
func NewMailboxRepository(queue repository.QueueStore, ttl time.Duration) repository.MailboxRepository {
	if ttl <= 0 {
		ttl = defaultMailboxTTL
	}

	return &mailboxRepository{queue: queue, ttl: ttl}
}

func mailboxKey(endpoint string) string {
	return constants.MailboxKeyPrefix + util.HashEndpoint(endpoint)
}

func (repo *mailboxRepository) Enqueue(ctx context.Context, endpoint string, payload *entity.NotificationPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode notification payload")
	}

	return repo.queue.Push(ctx, mailboxKey(endpoint), raw, repo.ttl)
}

func (repo *mailboxRepository) Dequeue(ctx context.Context, endpoint string) (*entity.NotificationPayload, error) {
	key := mailboxKey(endpoint)

	raw, err := repo.queue.Pop(ctx, key)
	if err != nil {
		return nil, err
	}

	var payload entity.NotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, domainerrors.NewStorageError("decode", key, errors.WithStack(err))
	}

	return &payload, nil
}
