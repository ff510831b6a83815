// Package shopdb opens an in-memory SQLite shop database wired to an orm engine for tests.
package shopdb

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"unicode"

	"ormlab/internal/domain/entity"
	"ormlab/internal/infra/persistence/gormstore"
	"ormlab/internal/infra/persistence/schema"
	"ormlab/internal/infra/persistence/sqlite"
	"ormlab/internal/orm"
	"ormlab/internal/orm/store"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// DB bundles the handles a test needs.
type DB struct {
	Gorm     *gorm.DB
	Recorder *store.Recorder
	Engine   *orm.Engine
}

// Open creates a fresh shop database. Every call gets its own in-memory file.
func Open(t testing.TB, opts ...orm.Option) *DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", name, seq.Add(1))
	db, err := sqlite.Open(dsn, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, schema.Apply(context.Background(), db))

	reg, err := entity.NewRegistry()
	require.NoError(t, err)

	rec := store.NewRecorder(gormstore.New(db))
	engine, err := orm.NewEngine(reg, rec, nil, opts...)
	require.NoError(t, err)

	return &DB{Gorm: db, Recorder: rec, Engine: engine}
}

// Tx runs fn in a committed transaction and fails the test on error.
func (d *DB) Tx(t testing.TB, fn func(ctx context.Context, s *orm.Session) error) {
	t.Helper()
	require.NoError(t, d.Engine.InTransaction(context.Background(), fn))
}

// CountRows counts the rows of table outside any orm session.
func (d *DB) CountRows(t testing.TB, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, d.Gorm.Table(table).Count(&n).Error)

	return n
}
