package redis

import (
	"context"
	"strconv"
	"strings"
	"time"

	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/repository"
	"alerts/internal/errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	lockPrefix     = "lock:"
	defaultLockTTL = 5 * time.Minute
)

// releaseScript deletes a lock only while the caller still owns it.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Store implements KeyValueStore, QueueStore and RecordLocker over one Redis client.
type Store struct {
	client    goredis.Cmdable
	namespace string
	lockTTL   time.Duration
}

func NewStore(client goredis.Cmdable, namespace string, lockTTL time.Duration) *Store {
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}

	return &Store{client: client, namespace: namespace, lockTTL: lockTTL}
}

func (s *Store) buildKey(key string) string {
	if s.namespace == "" {
		return key
	}

	return s.namespace + ":" + key
}

func (s *Store) stripKey(key string) string {
	if s.namespace == "" {
		return key
	}

	return strings.TrimPrefix(key, s.namespace+":")
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, domainerrors.NewStorageError("get", key, err)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.buildKey(key), value, 0).Err(); err != nil {
		return domainerrors.NewStorageError("put", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.buildKey(key)).Err(); err != nil {
		return domainerrors.NewStorageError("delete", key, err)
	}

	return nil
}

// List walks keys with SCAN. A page may be empty while the cursor is not; callers
// keep going until the cursor comes back empty. Keys can repeat across pages.
func (s *Store) List(ctx context.Context, prefix, cursor string, limit int) (*repository.KeyPage, error) {
	var position uint64
	if cursor != "" {
		parsed, err := strconv.ParseUint(cursor, 10, 64)
		if err != nil {
			return nil, domainerrors.NewStorageError("list", prefix, errors.Wrap(err, "invalid cursor"))
		}
		position = parsed
	}

	keys, next, err := s.client.Scan(ctx, position, s.buildKey(prefix)+"*", int64(limit)).Result()
	if err != nil {
		return nil, domainerrors.NewStorageError("list", prefix, err)
	}

	page := &repository.KeyPage{Keys: make([]string, 0, len(keys))}
	for _, key := range keys {
		page.Keys = append(page.Keys, s.stripKey(key))
	}
	if next != 0 {
		page.Cursor = strconv.FormatUint(next, 10)
	}

	return page, nil
}

// Push appends to the list and refreshes its expiry in one transaction.
func (s *Store) Push(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	fullKey := s.buildKey(key)

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, fullKey, value)
	if ttl > 0 {
		pipe.Expire(ctx, fullKey, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return domainerrors.NewStorageError("push", key, err)
	}

	return nil
}

func (s *Store) Pop(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.LPop(ctx, s.buildKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, domainerrors.NewStorageError("pop", key, err)
	}

	return value, nil
}

// TryLock takes a SETNX lock owned by a random token; the lock expires on its own
// if the holder dies before unlocking.
func (s *Store) TryLock(ctx context.Context, key string) (func(context.Context) error, bool, error) {
	lockKey := s.buildKey(lockPrefix + key)
	owner := uuid.NewString()

	ok, err := s.client.SetNX(ctx, lockKey, owner, s.lockTTL).Result()
	if err != nil {
		return nil, false, domainerrors.NewStorageError("lock", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	unlock := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, s.client, []string{lockKey}, owner).Err(); err != nil && !errors.Is(err, goredis.Nil) {
			return domainerrors.NewStorageError("unlock", key, err)
		}

		return nil
	}

	return unlock, true, nil
}
