// Package orm is an object-relational mapping core: entity mapping, a
// per-transaction identity map and change tracker, lazy references, cascades
// and a typed query builder over a row-store adapter.
package orm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ormlab/internal/errors"
	"ormlab/internal/orm/store"
)

// FlushMode controls when pending changes reach the store.
type FlushMode int

const (
	// FlushModeAuto flushes before queries and bulk statements as well as at commit.
	FlushModeAuto FlushMode = iota
	// FlushModeCommit flushes only at commit or on an explicit Flush.
	FlushModeCommit
)

func (m FlushMode) String() string {
	switch m {
	case FlushModeAuto:
		return "auto"
	case FlushModeCommit:
		return "commit"
	default:
		return fmt.Sprintf("FlushMode(%d)", int(m))
	}
}

// ParseFlushMode accepts "auto" or "commit"; the empty string means auto.
func ParseFlushMode(s string) (FlushMode, error) {
	switch s {
	case "", "auto":
		return FlushModeAuto, nil
	case "commit":
		return FlushModeCommit, nil
	default:
		return 0, errors.Errorf("unknown flush mode %q", s)
	}
}

type Options struct {
	// BatchFetchSize is the number of pending placeholders or collections
	// loaded together. 0 or 1 loads one at a time.
	BatchFetchSize int
	// DetectStale makes reads of instances changed by a bulk statement fail
	// with ErrStaleDataAccess instead of returning the in-memory state.
	DetectStale bool
	FlushMode   FlushMode
	// SlowStatementThreshold logs statements slower than this at Warn.
	SlowStatementThreshold time.Duration
}

type Option func(*Options)

func WithBatchFetchSize(n int) Option {
	return func(o *Options) { o.BatchFetchSize = n }
}

func WithStaleDetection(enabled bool) Option {
	return func(o *Options) { o.DetectStale = enabled }
}

func WithFlushMode(mode FlushMode) Option {
	return func(o *Options) { o.FlushMode = mode }
}

func WithSlowStatementThreshold(d time.Duration) Option {
	return func(o *Options) { o.SlowStatementThreshold = d }
}

// Engine holds the validated mapping and the store. It is safe for
// concurrent use; Sessions are not.
type Engine struct {
	registry *Registry
	store    store.Adapter
	logger   *slog.Logger
	opts     Options
}

// NewEngine validates reg and binds it to adapter.
func NewEngine(reg *Registry, adapter store.Adapter, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if err := reg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid mapping")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{registry: reg, store: adapter, logger: logger.With(slog.String("component", "orm"))}
	for _, opt := range opts {
		opt(&e.opts)
	}

	return e, nil
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

func (e *Engine) Options() Options {
	return e.opts
}

// NewSession returns an idle session.
func (e *Engine) NewSession() *Session {
	return newSession(e)
}

// InTransaction runs fn inside a fresh session transaction. The transaction
// commits when fn returns nil and rolls back when it returns an error or
// panics; a panic is re-raised after the rollback.
func (e *Engine) InTransaction(ctx context.Context, fn func(ctx context.Context, s *Session) error) error {
	s := e.NewSession()
	if err := s.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			if s.state.open() {
				_ = s.Rollback(ctx)
			}
			panic(r)
		}
	}()

	if err := fn(ctx, s); err != nil {
		if !s.state.open() {
			return err
		}
		if rbErr := s.Rollback(ctx); rbErr != nil {
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		return err
	}

	if !s.state.open() {
		return errors.Wrapf(ErrNoTransaction, "transaction ended as %s inside the unit of work", s.state)
	}

	return s.Commit(ctx)
}
