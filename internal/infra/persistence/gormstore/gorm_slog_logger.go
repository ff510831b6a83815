package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ormlab/internal/orm/store"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// LoggerConfig tunes the gorm logger. SlowThreshold is shared with the orm
// engine so both layers flag the same statements as slow.
type LoggerConfig struct {
	// Debug logs every statement at debug level.
	Debug         bool
	SlowThreshold time.Duration
}

type gormSlogLogger struct {
	logger        *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewLogger bridges gorm's logger to slog using the attribute names of the
// orm statement log (kind, sql, elapsed, rows). Failures and slow statements
// are always reported.
func NewLogger(baseLogger *slog.Logger, cfg LoggerConfig) logger.Interface {
	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}
	threshold := cfg.SlowThreshold
	if threshold <= 0 {
		threshold = defaultSlowThreshold
	}

	return &gormSlogLogger{
		logger:        baseLogger,
		level:         level,
		slowThreshold: threshold,
	}
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *gormSlogLogger) message(ctx context.Context, min logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.level < min || l.logger == nil {
		return
	}

	l.logger.LogAttrs(ctx, level, "store message", slog.String("message", fmt.Sprintf(msg, args...)))
}

// Trace is called by gorm after every statement.
func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.logger == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		attrs := append(statementAttrs(sqlAndRowsFn, elapsed), slog.String("error", err.Error()))
		l.logger.LogAttrs(ctx, slog.LevelError, "store statement failed", attrs...)
	case elapsed > l.slowThreshold && l.level >= logger.Warn:
		attrs := append(statementAttrs(sqlAndRowsFn, elapsed), slog.Duration("slowThreshold", l.slowThreshold))
		l.logger.LogAttrs(ctx, slog.LevelWarn, "store slow statement", attrs...)
	case l.level >= logger.Info:
		l.logger.LogAttrs(ctx, slog.LevelDebug, "store statement", statementAttrs(sqlAndRowsFn, elapsed)...)
	}
}

// statementAttrs omits rows when gorm reports them as unknown (-1).
func statementAttrs(sqlAndRowsFn func() (string, int64), elapsed time.Duration) []slog.Attr {
	sql, rows := sqlAndRowsFn()

	attrs := make([]slog.Attr, 0, 6)
	attrs = append(attrs,
		slog.String("kind", string(store.KindOf(sql))),
		slog.String("sql", sql),
		slog.Duration("elapsed", elapsed),
	)
	if rows >= 0 {
		attrs = append(attrs, slog.Int64("rows", rows))
	}

	return attrs
}
