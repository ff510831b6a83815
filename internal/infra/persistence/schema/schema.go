// Package schema bundles the DDL of the shop tables for each supported dialect.
package schema

import (
	"context"
	_ "embed"
	"strings"

	"ormlab/internal/errors"
	"ormlab/internal/orm/store"

	"gorm.io/gorm"
)

//go:embed sqlite.sql
var sqliteDDL string

//go:embed postgres.sql
var postgresDDL string

// ErrUnknownDialect is returned for a driver without a bundled script.
var ErrUnknownDialect = errors.New("no schema for dialect")

// Statements splits the script of dialect into single statements.
func Statements(dialect store.Dialect) ([]string, error) {
	var script string
	switch dialect.Name {
	case store.SQLite.Name:
		script = sqliteDDL
	case store.Postgres.Name:
		script = postgresDDL
	default:
		return nil, errors.Wrapf(ErrUnknownDialect, "%q", dialect.Name)
	}

	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}

	return out, nil
}

// Apply creates the shop tables that do not exist yet.
func Apply(ctx context.Context, db *gorm.DB) error {
	stmts, err := Statements(store.DialectFor(db.Dialector.Name()))
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return errors.Wrapf(err, "failed to apply %.40q", stmt)
			}
		}

		return nil
	})
}
