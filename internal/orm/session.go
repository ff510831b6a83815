package orm

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"ormlab/internal/errors"
	"ormlab/internal/orm/store"

	"github.com/google/uuid"
)

// TxState is the lifecycle state of a Session's unit of work.
type TxState int

const (
	TxIdle TxState = iota
	TxActive
	TxFlushing
	TxCommitted
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxActive:
		return "active"
	case TxFlushing:
		return "flushing"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled-back"
	default:
		return fmt.Sprintf("TxState(%d)", int(s))
	}
}

func (s TxState) open() bool {
	return s == TxActive || s == TxFlushing
}

// Session is a unit of work: one store transaction plus the identity map and
// change tracker scoped to it. A Session is used by one goroutine at a time.
type Session struct {
	engine *Engine
	id     uuid.UUID
	logger *slog.Logger

	state   TxState
	tx      store.Tx
	dialect store.Dialect
	epoch   uint64

	identities *identityMap
	tracker    *changeTracker
	refs       map[identity]any
	pending    *pendingLoads

	stats Stats
}

func newSession(e *Engine) *Session {
	id := uuid.New()
	s := &Session{
		engine:  e,
		id:      id,
		logger:  e.logger.With(slog.String("session", id.String())),
		dialect: e.store.Dialect(),
	}
	s.reset()

	return s
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the current transaction state.
func (s *Session) State() TxState {
	return s.state
}

// Stats returns the counters accumulated since the session was created.
func (s *Session) Stats() Stats {
	return s.stats
}

// Begin opens a store transaction with an empty identity map and change tracker.
func (s *Session) Begin(ctx context.Context) error {
	if s.state.open() {
		return errors.WithStack(ErrTransactionActive)
	}

	tx, err := s.engine.store.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	s.tx = tx
	s.reset()
	s.state = TxActive

	return nil
}

// Commit flushes pending changes and commits. On any failure the transaction
// is rolled back and nothing is applied.
func (s *Session) Commit(ctx context.Context) error {
	if !s.state.open() {
		return errors.WithStack(ErrNoTransaction)
	}

	if err := s.flush(ctx); err != nil {
		return s.abort(ctx, errors.Wrap(err, "flush failed"))
	}

	if err := s.tx.Commit(context.WithoutCancel(ctx)); err != nil {
		return s.abort(ctx, errors.Wrap(err, "failed to commit transaction"))
	}

	s.end(TxCommitted)

	return nil
}

// Rollback discards the transaction and every tracked change.
func (s *Session) Rollback(ctx context.Context) error {
	if !s.state.open() {
		return errors.WithStack(ErrNoTransaction)
	}

	err := s.tx.Rollback(context.WithoutCancel(ctx))
	s.end(TxRolledBack)
	if err != nil {
		return errors.Wrap(err, "failed to roll back transaction")
	}

	return nil
}

// abort rolls back after a failed flush or commit and returns cause.
func (s *Session) abort(ctx context.Context, cause error) error {
	s.logger.LogAttrs(ctx, slog.LevelWarn, "orm transaction rolled back", slog.String("error", cause.Error()))

	rbErr := s.tx.Rollback(context.WithoutCancel(ctx))
	s.end(TxRolledBack)
	if rbErr != nil {
		return errors.Wrapf(cause, "rollback also failed: %v", rbErr)
	}

	return cause
}

func (s *Session) end(state TxState) {
	s.tx = nil
	s.reset()
	s.state = state
}

// reset discards the persistence context. Placeholders and collections bound
// to the previous epoch report ErrDetached from then on.
func (s *Session) reset() {
	s.epoch++
	s.identities = newIdentityMap()
	s.tracker = newChangeTracker()
	s.refs = make(map[identity]any)
	s.pending = newPendingLoads()
}

func (s *Session) requireActive() error {
	if !s.state.open() {
		return errors.WithStack(ErrNoTransaction)
	}

	return nil
}

// Clear detaches every managed entity without flushing.
func (s *Session) Clear() {
	if !s.state.open() {
		return
	}
	s.reset()
}

// Detach stops tracking entity. Pending changes to it are discarded.
func (s *Session) Detach(entity any) {
	e := s.tracker.get(entity)
	if e == nil {
		return
	}
	s.forget(e)
}

// Evict drops the identity (T, key) from the session.
func Evict[T any](s *Session, key any) error {
	meta, err := s.engine.registry.metaOf(reflect.TypeFor[T]())
	if err != nil {
		return err
	}
	if !s.state.open() {
		return nil
	}
	nk, err := meta.normalizeKey(key)
	if err != nil {
		return err
	}

	if ptr, ok := s.identities.get(meta, nk); ok {
		if e := s.tracker.get(ptr); e != nil {
			s.forget(e)

			return nil
		}
	}
	s.identities.remove(meta, nk)
	delete(s.refs, identity{meta: meta, key: nk})

	return nil
}

// Contains reports whether entity is managed and not scheduled for removal.
func (s *Session) Contains(entity any) bool {
	if !s.state.open() {
		return false
	}
	e := s.tracker.get(entity)

	return e != nil && e.status != statusRemoved
}

// SetReadOnly toggles dirty checking for a managed entity.
func (s *Session) SetReadOnly(entity any, readOnly bool) error {
	e := s.tracker.get(entity)
	if e == nil {
		return errors.WithStack(ErrNotManaged)
	}
	e.readOnly = readOnly
	if !readOnly {
		e.snapshot = e.meta.state(e.val)
	}

	return nil
}

func (s *Session) forget(e *entry) {
	s.tracker.remove(e)
	if e.keyed {
		s.identities.remove(e.meta, e.key)
		delete(s.refs, identity{meta: e.meta, key: e.key})
	}
}

// query runs a select and records it.
func (s *Session) query(ctx context.Context, sql string, args []any) (*store.Rows, error) {
	rows, err := s.fetch(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	s.stats.Queries++

	return rows, nil
}

// fetch runs any row-returning statement without counting it.
func (s *Session) fetch(ctx context.Context, sql string, args []any) (*store.Rows, error) {
	begin := time.Now()
	rows, err := s.tx.Query(ctx, sql, args...)
	var n int64
	if rows != nil {
		n = int64(rows.Len())
	}
	s.logStatement(ctx, sql, args, begin, n, err)
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}

	return rows, nil
}

// exec runs a mutation and records it.
func (s *Session) exec(ctx context.Context, kind store.StatementKind, sql string, args []any) (int64, error) {
	begin := time.Now()
	n, err := s.tx.Exec(ctx, sql, args...)
	s.logStatement(ctx, sql, args, begin, n, err)
	if err != nil {
		return 0, errors.Wrap(err, "statement failed")
	}

	switch kind {
	case store.KindInsert:
		s.stats.Inserts++
	case store.KindUpdate:
		s.stats.Updates++
	case store.KindDelete:
		s.stats.Deletes++
	}

	return n, nil
}

func (s *Session) logStatement(ctx context.Context, sql string, args []any, begin time.Time, rows int64, err error) {
	elapsed := time.Since(begin)
	attrs := []slog.Attr{
		slog.String("sql", sql),
		slog.Any("args", args),
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
	}

	switch threshold := s.engine.opts.SlowStatementThreshold; {
	case err != nil:
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, "orm statement failed", attrs...)
	case threshold > 0 && elapsed > threshold:
		attrs = append(attrs, slog.Duration("slowThreshold", threshold))
		s.logger.LogAttrs(ctx, slog.LevelWarn, "orm slow statement", attrs...)
	default:
		s.logger.LogAttrs(ctx, slog.LevelDebug, "orm statement", attrs...)
	}
}
