// Package store defines the row-store contract the orm engine talks to.
// Implementations execute parameterized statements synchronously inside a
// store-level transaction and hand back untyped rows.
package store

import "context"

// Rows is a fully buffered result set.
type Rows struct {
	Columns []string
	Values  [][]any
}

// Len returns the number of buffered rows.
func (r *Rows) Len() int {
	if r == nil {
		return 0
	}

	return len(r.Values)
}

// Tx is a store transaction. Every statement issued by one orm session goes
// through the same Tx, so a rollback discards all of them.
type Tx interface {
	// Query runs a statement that returns rows (SELECT, INSERT ... RETURNING).
	Query(ctx context.Context, stmt string, args ...any) (*Rows, error)

	// Exec runs a mutation and reports the number of affected rows.
	Exec(ctx context.Context, stmt string, args ...any) (int64, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Adapter opens transactions against a backing store.
type Adapter interface {
	Begin(ctx context.Context) (Tx, error)
	Dialect() Dialect
}
