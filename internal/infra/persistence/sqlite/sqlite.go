// Package sqlite opens the SQLite store used for development and tests.
package sqlite

import (
	"context"
	"log/slog"

	"ormlab/config"
	"ormlab/internal/errors"
	"ormlab/internal/infra/persistence/gormstore"

	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// pure Go driver registered as "sqlite"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured SQLite database and closes it on stop.
func New(params Params) (*gorm.DB, error) {
	cfg := params.Config
	db, err := Open(cfg.Database.SQLite.DSN, gormstore.NewLogger(params.Logger, gormstore.LoggerConfig{
		Debug:         cfg.Env.Debug,
		SlowThreshold: cfg.Engine.SlowStatementThreshold,
	}))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SQLite sql.DB")
	}

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return errors.Wrap(sqlDB.PingContext(ctx), "failed to ping SQLite")
		},
		OnStop: func(_ context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}

// Open connects to dsn. The pool is limited to one connection: an in-memory
// database lives in its connection and SQLite serializes writers anyway.
func Open(dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	if gormLogger == nil {
		gormLogger = logger.Discard
	}

	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: driverName, DSN: dsn}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SQLite")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SQLite sql.DB")
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
