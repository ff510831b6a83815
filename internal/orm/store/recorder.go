package store

import (
	"context"
	"strings"
	"sync"
)

// StatementKind classifies a recorded statement by its leading keyword.
type StatementKind string

const (
	KindSelect StatementKind = "SELECT"
	KindInsert StatementKind = "INSERT"
	KindUpdate StatementKind = "UPDATE"
	KindDelete StatementKind = "DELETE"
	KindOther  StatementKind = "OTHER"
)

// Statement is one statement seen by a Recorder.
type Statement struct {
	Kind StatementKind
	SQL  string
	Args []any
}

// Recorder decorates an Adapter and keeps every statement it forwards.
type Recorder struct {
	next Adapter

	mu         sync.Mutex
	statements []Statement
}

// NewRecorder wraps next.
func NewRecorder(next Adapter) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.next.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &recordingTx{Tx: tx, rec: r}, nil
}

func (r *Recorder) Dialect() Dialect {
	return r.next.Dialect()
}

// Statements returns a copy of everything recorded so far.
func (r *Recorder) Statements() []Statement {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Statement, len(r.statements))
	copy(out, r.statements)

	return out
}

// Count returns the number of recorded statements of the given kind.
func (r *Recorder) Count(kind StatementKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, st := range r.statements {
		if st.Kind == kind {
			n++
		}
	}

	return n
}

// Len returns the number of recorded statements.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.statements)
}

// Reset forgets recorded statements.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.statements = nil
	r.mu.Unlock()
}

func (r *Recorder) record(stmt string, args []any) {
	r.mu.Lock()
	r.statements = append(r.statements, Statement{Kind: KindOf(stmt), SQL: stmt, Args: args})
	r.mu.Unlock()
}

// KindOf classifies stmt by its leading keyword.
func KindOf(stmt string) StatementKind {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return KindOther
	}

	switch kind := StatementKind(strings.ToUpper(fields[0])); kind {
	case KindSelect, KindInsert, KindUpdate, KindDelete:
		return kind
	default:
		return KindOther
	}
}

type recordingTx struct {
	Tx
	rec *Recorder
}

func (t *recordingTx) Query(ctx context.Context, stmt string, args ...any) (*Rows, error) {
	t.rec.record(stmt, args)

	return t.Tx.Query(ctx, stmt, args...)
}

func (t *recordingTx) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	t.rec.record(stmt, args)

	return t.Tx.Exec(ctx, stmt, args...)
}
