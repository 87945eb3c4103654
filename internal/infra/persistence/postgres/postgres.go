// Package postgres keeps subscriber records and mailboxes in PostgreSQL through GORM.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"alerts/config"
	"alerts/internal/domain/lifecycle"
	"alerts/internal/errors"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	housekeepingInterval  = 30 * time.Second
	poolWaitWarnThreshold = 50 * time.Millisecond
)

// Open connects to PostgreSQL, migrates the storage tables on start and closes the pool on stop.
// While running it purges expired mailbox rows and reports connection pool waits.
func Open(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.Postgres == nil {
		return nil, errors.New("postgres configuration is required for the postgres storage driver")
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db = db.Session(&gorm.Session{
		// Pop and Push open their own transactions.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(logger, cfg),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	hk := &housekeeper{store: &store{db: db, now: time.Now}, pool: sqlDB, logger: logger}
	hkCtx, stopHousekeeping := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}
			if err := Migrate(ctx, db); err != nil {
				return err
			}

			go hk.run(hkCtx, housekeepingInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			stopHousekeeping()

			return sqlDB.Close()
		},
	})

	return db, nil
}

type housekeeper struct {
	store    *store
	pool     *sql.DB
	logger   *slog.Logger
	lastPool sql.DBStats
}

func (h *housekeeper) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.lastPool = h.pool.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweep(ctx)
			h.checkPool(ctx)
		}
	}
}

// sweep drops mailbox rows nobody popped before they expired.
func (h *housekeeper) sweep(ctx context.Context) {
	purged, err := h.store.PurgeExpired(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "[Storage] Failed to purge expired mailbox entries",
			slog.Any("error", err),
		)

		return
	}
	if purged > 0 {
		h.logger.DebugContext(ctx, "[Storage] Purged expired mailbox entries", slog.Int64("rows", purged))
	}
}

func (h *housekeeper) checkPool(ctx context.Context) {
	cur := h.pool.Stats()
	waits := cur.WaitCount - h.lastPool.WaitCount
	waited := cur.WaitDuration - h.lastPool.WaitDuration
	h.lastPool = cur
	if waits <= 0 {
		return
	}

	level := slog.LevelDebug
	if waited >= poolWaitWarnThreshold {
		level = slog.LevelWarn
	}
	h.logger.LogAttrs(ctx, level, "[Storage] Postgres pool wait",
		slog.Int64("waits", waits),
		slog.Duration("waited", waited),
		slog.Int("openConns", cur.OpenConnections),
		slog.Int("inUseConns", cur.InUse),
	)
}
