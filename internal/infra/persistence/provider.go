// Package persistence selects the storage backend named in configuration.
package persistence

import (
	"log/slog"

	"alerts/config"
	"alerts/internal/domain/constants"
	"alerts/internal/domain/repository"
	"alerts/internal/errors"
	"alerts/internal/infra/persistence/kv"
	"alerts/internal/infra/persistence/memory"
	"alerts/internal/infra/persistence/postgres"
	"alerts/internal/infra/persistence/redis"

	"go.uber.org/fx"
)

// StoresParams holds dependencies for NewStores, injected by Fx
type StoresParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// Stores exposes the raw storage primitives of the selected backend
type Stores struct {
	fx.Out

	KeyValue repository.KeyValueStore
	Queue    repository.QueueStore
	Locker   repository.RecordLocker
}

// NewStores opens the configured backend. Redis provides a cross-process record lock;
// memory and postgres lock records within the process.
func NewStores(params StoresParams) (Stores, error) {
	driver := params.Config.Storage.Driver
	logger := params.Logger

	switch driver {
	case "", constants.StorageDriverMemory:
		logger.Warn("Using in-memory storage, subscriptions are lost on restart")
		store := memory.NewStore()

		return Stores{KeyValue: store, Queue: store, Locker: memory.NewLocker()}, nil

	case constants.StorageDriverRedis:
		if params.Config.Redis == nil {
			return Stores{}, errors.New("redis configuration is required for the redis storage driver")
		}
		client, err := redis.Open(params.Lc, params.Config.Redis, logger)
		if err != nil {
			return Stores{}, err
		}
		store := redis.NewStore(client, params.Config.Redis.Namespace, params.Config.Alerts.LockTTL)
		logger.Info("Using Redis storage", slog.String("namespace", params.Config.Redis.Namespace))

		return Stores{KeyValue: store, Queue: store, Locker: store}, nil

	case constants.StorageDriverPostgres:
		db, err := postgres.Open(params.Lc, params.Config, logger)
		if err != nil {
			return Stores{}, err
		}
		store := postgres.NewStore(db)
		logger.Info("Using PostgreSQL storage")

		return Stores{KeyValue: store, Queue: store, Locker: memory.NewLocker()}, nil

	default:
		return Stores{}, errors.Errorf("unknown storage driver: %s", driver)
	}
}

// NewSubscriberRepository binds subscriber records to the selected key-value store.
func NewSubscriberRepository(store repository.KeyValueStore) repository.SubscriberRepository {
	return kv.NewSubscriberRepository(store)
}

// NewMailboxRepository binds mailboxes to the selected queue store.
func NewMailboxRepository(queue repository.QueueStore, cfg *config.Config) repository.MailboxRepository {
	return kv.NewMailboxRepository(queue, cfg.Alerts.MailboxTTL)
}

// Module provides storage primitives and the repositories built on them
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewStores,
		NewSubscriberRepository,
		NewMailboxRepository,
	),
)
