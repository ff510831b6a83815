package gormstore_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ormlab/internal/errors"
	"ormlab/internal/infra/persistence/gormstore"
	"ormlab/internal/infra/persistence/sqlite"
	"ormlab/internal/orm/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

func openDB(t *testing.T, gormLogger logger.Interface) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:gormstore_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", seq.Add(1))
	db, err := sqlite.Open(dsn, gormLogger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range []string{
		"CREATE TABLE team (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE, size INTEGER CHECK (size >= 0))",
		"CREATE TABLE player (id INTEGER PRIMARY KEY AUTOINCREMENT, team_id INTEGER NOT NULL REFERENCES team (id))",
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func TestAdapterRoundTrip(t *testing.T) {
	adapter := gormstore.New(openDB(t, nil))
	assert.Equal(t, store.SQLite, adapter.Dialect())

	ctx := context.Background()
	tx, err := adapter.Begin(ctx)
	require.NoError(t, err)

	n, err := tx.Exec(ctx, "INSERT INTO team (name, size) VALUES (?, ?), (?, ?)", "red", 3, "blue", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, err := tx.Query(ctx, "SELECT name, size FROM team WHERE size > ? ORDER BY name", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "size"}, rows.Columns)
	require.Equal(t, 2, rows.Len())
	assert.Equal(t, int64(5), rows.Values[0][1])
	require.NoError(t, tx.Commit(ctx))

	tx, err = adapter.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "DELETE FROM team")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
	// a second rollback is a no-op
	require.NoError(t, tx.Rollback(ctx))

	tx, err = adapter.Begin(ctx)
	require.NoError(t, err)
	rows, err = tx.Query(ctx, "SELECT COUNT(*) FROM team")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows.Values[0][0])
	require.NoError(t, tx.Commit(ctx))
}

func TestConstraintClassification(t *testing.T) {
	adapter := gormstore.New(openDB(t, nil))
	ctx := context.Background()

	exec := func(stmt string, args ...any) error {
		tx, err := adapter.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback(ctx) }()
		_, err = tx.Exec(ctx, stmt, args...)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	}
	require.NoError(t, exec("INSERT INTO team (name, size) VALUES ('red', 1)"))

	tests := []struct {
		name  string
		stmt  string
		check func(error) bool
	}{
		{name: "unique", stmt: "INSERT INTO team (name, size) VALUES ('red', 2)", check: gormstore.IsUniqueConstraintViolation},
		{name: "foreign key", stmt: "INSERT INTO player (team_id) VALUES (404)", check: gormstore.IsForeignKeyConstraintViolation},
		{name: "not null", stmt: "INSERT INTO team (name, size) VALUES (NULL, 2)", check: gormstore.IsNotNullConstraintViolation},
		{name: "check", stmt: "INSERT INTO team (name, size) VALUES ('blue', -1)", check: gormstore.IsCheckConstraintViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exec(tt.stmt)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}

	assert.False(t, gormstore.IsUniqueConstraintViolation(nil))
	assert.False(t, gormstore.IsUniqueConstraintViolation(errors.New("connection reset")))
	assert.True(t, gormstore.IsUniqueConstraintViolation(errors.Wrap(gorm.ErrDuplicatedKey, "insert")))
	assert.True(t, gormstore.IsForeignKeyConstraintViolation(errors.New(`pq: violates foreign key constraint "fk" (SQLSTATE 23503)`)))
}

func TestLoggerReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db := openDB(t, gormstore.NewLogger(base, gormstore.LoggerConfig{SlowThreshold: time.Second}))

	require.NoError(t, db.Exec("INSERT INTO team (name, size) VALUES ('red', 1)").Error)
	assert.Empty(t, buf.String(), "successful statements are quiet outside debug mode")

	require.Error(t, db.Exec("INSERT INTO team (name, size) VALUES ('red', 1)").Error)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "store statement failed", rec["msg"])
	assert.Equal(t, "INSERT", rec["kind"])
	assert.Equal(t, "ERROR", rec["level"])
	assert.Contains(t, rec["sql"], "INSERT INTO team")
}

func TestLoggerDebugMode(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := gormstore.NewLogger(base, gormstore.LoggerConfig{Debug: true})

	decode := func() map[string]any {
		t.Helper()
		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		buf.Reset()

		return rec
	}

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	rec := decode()
	assert.Equal(t, "store statement", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "SELECT", rec["kind"])
	assert.EqualValues(t, 1, rec["rows"])

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "PRAGMA foreign_keys", -1 }, nil)
	rec = decode()
	assert.Equal(t, "OTHER", rec["kind"])
	assert.NotContains(t, rec, "rows", "unknown row counts are omitted")

	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "UPDATE team SET size = 1", 1 }, nil)
	rec = decode()
	assert.Equal(t, "store slow statement", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "UPDATE", rec["kind"])

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 3", 0 }, gorm.ErrRecordNotFound)
	assert.Equal(t, "store statement", decode()["msg"], "record not found is not an error")
}

func TestLoggerSharesEngineSlowThreshold(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	l := gormstore.NewLogger(base, gormstore.LoggerConfig{SlowThreshold: time.Hour})

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String(), "below the configured threshold")

	l.Info(context.Background(), "ignored %d", 1)
	assert.Empty(t, buf.String(), "messages below warn are dropped outside debug mode")

	l.Warn(context.Background(), "pool %s", "busy")
	assert.Contains(t, buf.String(), `"message":"pool busy"`)
}
