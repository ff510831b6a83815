package schema

import (
	"context"
	"testing"

	"ormlab/internal/infra/persistence/sqlite"
	"ormlab/internal/orm/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name    string
		dialect store.Dialect
		wantErr bool
	}{
		{name: "sqlite", dialect: store.SQLite},
		{name: "postgres", dialect: store.Postgres},
		{name: "unknown", dialect: store.Dialect{Name: "mssql"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := Statements(tt.dialect)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownDialect)

				return
			}
			require.NoError(t, err)
			assert.Len(t, stmts, 9)
			for _, stmt := range stmts {
				assert.Contains(t, stmt, "CREATE TABLE IF NOT EXISTS")
			}
		})
	}
}

func TestApply(t *testing.T) {
	db, err := sqlite.Open("file:schema_apply?mode=memory&cache=shared&_pragma=foreign_keys(1)", nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, Apply(ctx, db))
	// idempotent
	require.NoError(t, Apply(ctx, db))

	var tables []string
	require.NoError(t, db.Raw("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name").
		Scan(&tables).Error)
	assert.Equal(t, []string{"album", "book", "delivery", "item", "member", "movie", "order_item", "orders", "team"}, tables)
}
