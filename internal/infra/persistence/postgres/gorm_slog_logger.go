package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"alerts/config"
	"alerts/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormSlogLogger routes GORM output to slog. Statements are summarized as
// verb and table since kv_entries values carry push subscription keys.
type gormSlogLogger struct {
	logger        *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormSlogLogger(baseLogger *slog.Logger, cfg *config.Config) logger.Interface {
	l := &gormSlogLogger{logger: baseLogger, level: logger.Warn}
	if cfg != nil {
		if cfg.Env.Debug {
			l.level = logger.Info
		}
		l.slowThreshold = cfg.Storage.SlowQueryThreshold
	}

	return l
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logf(ctx, logger.Info, slog.LevelInfo, msg, args...)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logf(ctx, logger.Warn, slog.LevelWarn, msg, args...)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logf(ctx, logger.Error, slog.LevelError, msg, args...)
}

func (l *gormSlogLogger) logf(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, args ...any) {
	if l.logger == nil || l.level < threshold {
		return
	}

	l.logger.LogAttrs(ctx, level, "[Storage] GORM", slog.String("message", fmt.Sprintf(msg, args...)))
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.logger == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn
	if !failed && !slow && l.level < logger.Info {
		return
	}

	sql, rows := sqlAndRowsFn()
	verb, table := summarizeSQL(sql)
	attrs := []slog.Attr{
		slog.String("statement", verb),
		slog.String("table", table),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}

	switch {
	case failed:
		l.logger.LogAttrs(ctx, slog.LevelError, "[Storage] Statement failed", append(attrs, slog.String("error", err.Error()))...)
	case slow:
		l.logger.LogAttrs(ctx, slog.LevelWarn, "[Storage] Slow statement", append(attrs, slog.Duration("slowThreshold", l.slowThreshold))...)
	default:
		l.logger.LogAttrs(ctx, slog.LevelDebug, "[Storage] Statement", attrs...)
	}
}

// summarizeSQL returns the leading verb and the first table the statement touches.
func summarizeSQL(sql string) (string, string) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "", ""
	}

	verb := strings.ToUpper(fields[0])
	for i := 1; i < len(fields)-1; i++ {
		switch strings.ToUpper(fields[i]) {
		case "FROM", "INTO", "UPDATE", "TABLE":
			return verb, strings.Trim(fields[i+1], `"(;`)
		}
	}
	if verb == "UPDATE" && len(fields) > 1 {
		return verb, strings.Trim(fields[1], `"(;`)
	}

	return verb, ""
}
