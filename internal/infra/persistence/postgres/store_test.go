package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"alerts/config"
	"alerts/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: newGormSlogLogger(slog.New(slog.DiscardHandler), &config.Config{}),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), conn))

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return conn
}

func newTestStore(t *testing.T) (*store, *time.Time) {
	t.Helper()

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s := NewStore(newTestDB(t)).(*store)
	s.now = func() time.Time { return now }

	return s, &now
}

func TestStore_KeyValue(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Get(ctx, "sub:a")
	require.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, s.Put(ctx, "sub:a", []byte(`{"v":1}`)))
	require.NoError(t, s.Put(ctx, "sub:a", []byte(`{"v":2}`)))

	value, err := s.Get(ctx, "sub:a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(value))

	require.NoError(t, s.Delete(ctx, "sub:a"))
	require.NoError(t, s.Delete(ctx, "sub:missing"))

	_, err = s.Get(ctx, "sub:a")
	require.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestStore_ListKeysetPaging(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for i := range 5 {
		require.NoError(t, s.Put(ctx, fmt.Sprintf("sub:%d", i), []byte("{}")))
	}
	require.NoError(t, s.Put(ctx, "subway", []byte("{}")))
	require.NoError(t, s.Put(ctx, "sub_x", []byte("{}")))

	var all []string
	cursor := ""
	for {
		page, err := s.List(ctx, "sub:", cursor, 2)
		require.NoError(t, err)
		all = append(all, page.Keys...)
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	assert.Equal(t, []string{"sub:0", "sub:1", "sub:2", "sub:3", "sub:4"}, all)

	page, err := s.List(ctx, "sub_", "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub_x"}, page.Keys, "underscore in prefix is literal")
}

func TestStore_QueueFIFOAndExpiry(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)

	require.NoError(t, s.Push(ctx, "notif:a", []byte("1"), 5*time.Minute))
	require.NoError(t, s.Push(ctx, "notif:a", []byte("2"), 5*time.Minute))
	require.NoError(t, s.Push(ctx, "notif:b", []byte("other"), 5*time.Minute))

	value, err := s.Pop(ctx, "notif:a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(value))

	*now = now.Add(6 * time.Minute)
	_, err = s.Pop(ctx, "notif:a")
	require.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, s.Push(ctx, "notif:a", []byte("3"), 5*time.Minute))
	value, err = s.Pop(ctx, "notif:a")
	require.NoError(t, err)
	assert.Equal(t, "3", string(value))

	_, err = s.Pop(ctx, "notif:a")
	require.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestStore_PushRefreshesQueueExpiry(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)

	require.NoError(t, s.Push(ctx, "notif:a", []byte("1"), 5*time.Minute))
	*now = now.Add(4 * time.Minute)
	require.NoError(t, s.Push(ctx, "notif:a", []byte("2"), 5*time.Minute))
	*now = now.Add(4 * time.Minute)

	value, err := s.Pop(ctx, "notif:a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(value))
}

func TestGormSlogLogger_LogMode(t *testing.T) {
	base := newGormSlogLogger(nil, &config.Config{})
	silent := base.LogMode(logger.Silent)

	assert.NotSame(t, base, silent)
	assert.Equal(t, logger.Silent, silent.(*gormSlogLogger).level)
	assert.Equal(t, logger.Warn, base.(*gormSlogLogger).level)
}

func TestStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)

	require.NoError(t, s.Push(ctx, "notif:a", []byte("1"), time.Minute))
	require.NoError(t, s.Push(ctx, "notif:b", []byte("2"), 10*time.Minute))
	*now = now.Add(2 * time.Minute)

	purged, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	value, err := s.Pop(ctx, "notif:b")
	require.NoError(t, err)
	assert.Equal(t, "2", string(value))

	purged, err = s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestHousekeeper_Sweep(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)
	sqlDB, err := s.db.DB()
	require.NoError(t, err)

	require.NoError(t, s.Push(ctx, "notif:a", []byte("1"), time.Minute))
	*now = now.Add(time.Hour)

	hk := &housekeeper{store: s, pool: sqlDB, logger: slog.New(slog.DiscardHandler)}
	hk.sweep(ctx)
	hk.checkPool(ctx)

	var count int64
	require.NoError(t, s.db.Table("mailbox_entries").Count(&count).Error)
	assert.Zero(t, count)
}
