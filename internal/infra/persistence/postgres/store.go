package postgres

import (
	"context"
	"strings"
	"time"

	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/repository"
	"alerts/internal/errors"
	"alerts/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// store implements KeyValueStore on kv_entries and QueueStore on mailbox_entries.
type store struct {
	db  *gorm.DB
	now func() time.Time
}

// Store is the relational KeyValueStore and QueueStore.
type Store interface {
	repository.KeyValueStore
	repository.QueueStore
}

// NewStore is the constructor for the GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &store{db: db, now: time.Now}
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	var entry model.KVEntryModel
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, domainerrors.NewStorageError("get", key, err)
	}

	return entry.Value, nil
}

func (s *store) Put(ctx context.Context, key string, value []byte) error {
	now := s.now()
	entry := model.KVEntryModel{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return domainerrors.NewStorageError("put", key, err)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&model.KVEntryModel{}).Error; err != nil {
		return domainerrors.NewStorageError("delete", key, err)
	}

	return nil
}

// List uses keyset pagination on the primary key; the cursor is the last key of the previous page.
func (s *store) List(ctx context.Context, prefix, cursor string, limit int) (*repository.KeyPage, error) {
	query := s.db.WithContext(ctx).
		Model(&model.KVEntryModel{}).
		Where(`entry_key LIKE ? ESCAPE '\'`, likeEscaper.Replace(prefix)+"%").
		Order("entry_key ASC")
	if cursor != "" {
		query = query.Where("entry_key > ?", cursor)
	}
	if limit > 0 {
		query = query.Limit(limit + 1)
	}

	var keys []string
	if err := query.Pluck("entry_key", &keys).Error; err != nil {
		return nil, domainerrors.NewStorageError("list", prefix, err)
	}

	page := &repository.KeyPage{Keys: keys}
	if limit > 0 && len(keys) > limit {
		page.Keys = keys[:limit]
		page.Cursor = keys[limit-1]
	}

	return page, nil
}

// Push appends a row and moves the expiry of the whole queue forward, like EXPIRE on a list.
func (s *store) Push(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	expiresAt := now.Add(ttl)
	if ttl <= 0 {
		expiresAt = now.AddDate(100, 0, 0)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := model.MailboxEntryModel{QueueKey: key, Value: value, ExpiresAt: expiresAt, CreatedAt: now}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&model.MailboxEntryModel{}).
			Where("queue_key = ? AND expires_at > ?", key, now).
			Update("expires_at", expiresAt).Error
	})
	if err != nil {
		return domainerrors.NewStorageError("push", key, err)
	}

	return nil
}

// Pop claims the oldest live row with SKIP LOCKED so concurrent pollers never get the same payload.
func (s *store) Pop(ctx context.Context, key string) ([]byte, error) {
	now := s.now()

	var (
		value []byte
		found bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("queue_key = ? AND expires_at <= ?", key, now).
			Delete(&model.MailboxEntryModel{}).Error; err != nil {
			return err
		}

		var entries []model.MailboxEntryModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("queue_key = ? AND expires_at > ?", key, now).
			Order("id ASC").
			Limit(1).
			Find(&entries).Error
		if err != nil || len(entries) == 0 {
			return err
		}
		entry := entries[0]

		if err := tx.Delete(&model.MailboxEntryModel{}, entry.ID).Error; err != nil {
			return err
		}
		value, found = entry.Value, true

		return nil
	})
	if err != nil {
		return nil, domainerrors.NewStorageError("pop", key, err)
	}
	if !found {
		return nil, repository.ErrKeyNotFound
	}

	return value, nil
}

// PurgeExpired deletes every mailbox row past its expiry and reports how many went.
func (s *store) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&model.MailboxEntryModel{})
	if result.Error != nil {
		return 0, domainerrors.NewStorageError("purge", "mailbox_entries", result.Error)
	}

	return result.RowsAffected, nil
}

// Migrate creates or updates the kv_entries and mailbox_entries tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&model.KVEntryModel{}, &model.MailboxEntryModel{}); err != nil {
		return errors.Wrap(err, "failed to migrate storage tables")
	}

	return nil
}
