// Package memory keeps subscriber records and mailboxes in process memory.
// It backs local development and tests; nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"alerts/internal/domain/repository"
)

type queueEntry struct {
	values    [][]byte
	expiresAt time.Time
}

// Store implements KeyValueStore and QueueStore.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	queues map[string]*queueEntry
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		values: make(map[string][]byte),
		queues: make(map[string]*queueEntry),
		now:    time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}

	return slices.Clone(value), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = slices.Clone(value)

	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	return nil
}

// List pages through keys in lexical order; the cursor is the last key returned.
func (s *Store) List(_ context.Context, prefix, cursor string, limit int) (*repository.KeyPage, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		if strings.HasPrefix(key, prefix) && key > cursor {
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()

	slices.Sort(keys)

	page := &repository.KeyPage{Keys: keys}
	if limit > 0 && len(keys) > limit {
		page.Keys = keys[:limit]
		page.Cursor = keys[limit-1]
	}

	return page, nil
}

func (s *Store) Push(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.queues[key]
	if !ok || entry.expired(now) {
		entry = &queueEntry{}
		s.queues[key] = entry
	}

	entry.values = append(entry.values, slices.Clone(value))
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	return nil
}

func (s *Store) Pop(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.queues[key]
	if !ok || entry.expired(s.now()) {
		delete(s.queues, key)
		return nil, repository.ErrKeyNotFound
	}

	value := entry.values[0]
	entry.values = entry.values[1:]
	if len(entry.values) == 0 {
		delete(s.queues, key)
	}

	return value, nil
}

func (e *queueEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Locker is an in-process RecordLocker. It serializes cycles within one process only.
type Locker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocker() *Locker {
	return &Locker{held: make(map[string]struct{})}
}

func (l *Locker) TryLock(_ context.Context, key string) (func(context.Context) error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[key]; busy {
		return nil, false, nil
	}
	l.held[key] = struct{}{}

	var once sync.Once
	unlock := func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})

		return nil
	}

	return unlock, true, nil
}
