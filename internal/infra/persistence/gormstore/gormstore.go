// Package gormstore adapts a *gorm.DB to the orm row-store contract.
package gormstore

import (
	"context"
	"database/sql"

	"ormlab/internal/errors"
	"ormlab/internal/orm/store"

	"gorm.io/gorm"
)

// Adapter opens gorm transactions. Statements are passed through Raw and Exec,
// so gorm rebinds the '?' placeholders for the active dialector.
type Adapter struct {
	db      *gorm.DB
	dialect store.Dialect
}

// New wraps db. The dialect is derived from the gorm dialector name.
func New(db *gorm.DB) *Adapter {
	return &Adapter{db: db, dialect: store.DialectFor(db.Dialector.Name())}
}

func (a *Adapter) Dialect() store.Dialect {
	return a.dialect
}

func (a *Adapter) Begin(ctx context.Context) (store.Tx, error) {
	tx := a.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, errors.Wrap(tx.Error, "failed to begin transaction")
	}

	return &gormTx{tx: tx}, nil
}

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) Query(ctx context.Context, stmt string, args ...any) (*store.Rows, error) {
	rows, err := t.tx.WithContext(ctx).Raw(stmt, args...).Rows()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	out := &store.Rows{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.WithStack(err)
		}
		out.Values = append(out.Values, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return out, nil
}

func (t *gormTx) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	res := t.tx.WithContext(ctx).Exec(stmt, args...)
	if res.Error != nil {
		return 0, errors.WithStack(res.Error)
	}

	return res.RowsAffected, nil
}

func (t *gormTx) Commit(_ context.Context) error {
	return errors.WithStack(t.tx.Commit().Error)
}

// Rollback of a finished transaction is a no-op.
func (t *gormTx) Rollback(_ context.Context) error {
	err := t.tx.Rollback().Error
	if errors.Is(err, gorm.ErrInvalidTransaction) || errors.Is(err, sql.ErrTxDone) {
		return nil
	}

	return errors.WithStack(err)
}
