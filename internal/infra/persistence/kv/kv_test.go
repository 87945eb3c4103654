package kv

import (
	"context"
	"testing"
	"time"

	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/repository"
	"alerts/internal/errors"
	"alerts/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewSubscriberRepository(store).(*subscriberRepository)
	fixed := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	record := &entity.SubscriberRecord{
		Subscription: entity.PushSubscription{
			Endpoint: "https://push.example.com/a",
			Keys:     entity.PushKeys{P256dh: "p", Auth: "a"},
		},
		Alerts:      []entity.Alert{{ID: "a1", Keywords: []string{"billy"}, StoreIDs: []string{"294"}, Active: true}},
		SeenByAlert: map[string][]string{"a1": {"x"}},
	}
	require.NoError(t, repo.Put(ctx, record))
	assert.Equal(t, "https://push.example.com/a", record.Endpoint)
	assert.Equal(t, fixed, record.CreatedAt)

	key := repo.Key("https://push.example.com/a")
	assert.Regexp(t, `^sub:[0-9a-f]{64}$`, key)

	loaded, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, record.Alerts, loaded.Alerts)
	assert.Equal(t, []string{"x"}, loaded.SeenByAlert["a1"])

	byEndpoint, err := repo.GetByEndpoint(ctx, "https://push.example.com/a")
	require.NoError(t, err)
	assert.Equal(t, loaded, byEndpoint)

	later := fixed.Add(time.Hour)
	repo.now = func() time.Time { return later }
	require.NoError(t, repo.Put(ctx, loaded))
	assert.Equal(t, fixed, loaded.CreatedAt)
	assert.Equal(t, later, loaded.UpdatedAt)

	require.NoError(t, repo.DeleteByEndpoint(ctx, "https://push.example.com/a"))
	_, err = repo.Get(ctx, key)
	require.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestSubscriberRepository_PutRequiresEndpoint(t *testing.T) {
	repo := NewSubscriberRepository(memory.NewStore())

	err := repo.Put(context.Background(), &entity.SubscriberRecord{})
	require.ErrorIs(t, err, domainerrors.ErrMissingEndpoint)
}

func TestSubscriberRepository_ReadsLegacyRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewSubscriberRepository(store)

	legacy := `{"subscription":{"endpoint":"https://push.example.com/legacy","keys":{"p256dh":"p","auth":"a"}},` +
		`"keywords":["lack"],"storeIds":["294"],"lastSeenIds":["1","2"]}`
	key := repo.Key("https://push.example.com/legacy")
	require.NoError(t, store.Put(ctx, key, []byte(legacy)))

	record, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "https://push.example.com/legacy", record.Endpoint)
	assert.Equal(t, []string{"1", "2"}, record.LastSeenIDs)
	require.Len(t, record.ActiveAlerts(), 1)
	assert.Equal(t, "default", record.ActiveAlerts()[0].ID)
}

func TestSubscriberRepository_CorruptRecordIsStorageError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewSubscriberRepository(store)
	require.NoError(t, store.Put(ctx, "sub:broken", []byte("{")))

	_, err := repo.Get(ctx, "sub:broken")

	var storageErr *domainerrors.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "sub:broken", storageErr.Key)
}

func TestSubscriberRepository_ListOnlySubscriberKeys(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewSubscriberRepository(store)

	for _, endpoint := range []string{"https://a", "https://b", "https://c"} {
		require.NoError(t, repo.Put(ctx, &entity.SubscriberRecord{Endpoint: endpoint}))
	}
	require.NoError(t, store.Put(ctx, "config:x", []byte("{}")))

	var keys []string
	cursor := ""
	for {
		page, err := repo.List(ctx, cursor, 2)
		require.NoError(t, err)
		keys = append(keys, page.Keys...)
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	assert.ElementsMatch(t, []string{repo.Key("https://a"), repo.Key("https://b"), repo.Key("https://c")}, keys)
}

func TestMailboxRepository_FIFO(t *testing.T) {
	ctx := context.Background()
	mailbox := NewMailboxRepository(memory.NewStore(), 0)

	_, err := mailbox.Dequeue(ctx, "https://push.example.com/a")
	require.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, mailbox.Enqueue(ctx, "https://push.example.com/a", &entity.NotificationPayload{Title: "first", NotificationID: "n1"}))
	require.NoError(t, mailbox.Enqueue(ctx, "https://push.example.com/a", &entity.NotificationPayload{Title: "second", NotificationID: "n2"}))
	require.NoError(t, mailbox.Enqueue(ctx, "https://push.example.com/b", &entity.NotificationPayload{Title: "other"}))

	first, err := mailbox.Dequeue(ctx, "https://push.example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Title)
	assert.Equal(t, "n1", first.NotificationID)

	second, err := mailbox.Dequeue(ctx, "https://push.example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "second", second.Title)

	_, err = mailbox.Dequeue(ctx, "https://push.example.com/a")
	require.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestMailboxKey(t *testing.T) {
	assert.Regexp(t, `^notif:[0-9a-f]{64}$`, mailboxKey("https://push.example.com/a"))
}
