// Package ormrepo implements the domain repositories on top of orm sessions.
package ormrepo

import (
	"context"

	domainerrors "ormlab/internal/domain/errors"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/infra/persistence/gormstore"
	"ormlab/internal/orm"
)

// ormTransactionManager implements the domain's TransactionManager interface using orm sessions.
type ormTransactionManager struct {
	engine *orm.Engine
}

// ormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds the session of one transaction and uses it to create
// repository instances that are bound to that single transaction.
type ormRepositoryFactory struct {
	s *orm.Session
}

// NewMemberRepository creates a new member repository instance bound to the transaction.
func (f *ormRepositoryFactory) NewMemberRepository() repository.MemberRepository {
	return NewMemberRepository(f.s)
}

// NewTeamRepository creates a new team repository instance bound to the transaction.
func (f *ormRepositoryFactory) NewTeamRepository() repository.TeamRepository {
	return NewTeamRepository(f.s)
}

// NewItemRepository creates a new item repository instance bound to the transaction.
func (f *ormRepositoryFactory) NewItemRepository() repository.ItemRepository {
	return NewItemRepository(f.s)
}

// NewOrderRepository creates a new order repository instance bound to the transaction.
func (f *ormRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	return NewOrderRepository(f.s)
}

// NewOrderQueryRepository creates a new order query repository instance bound to the transaction.
func (f *ormRepositoryFactory) NewOrderQueryRepository() repository.OrderQueryRepository {
	return NewOrderQueryRepository(f.s)
}

// NewTransactionManager is the constructor for ormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(engine *orm.Engine) repository.TransactionManager {
	return &ormTransactionManager{engine: engine}
}

// Execute runs the given function within a single session transaction. The
// engine rolls back on error or panic and flushes before committing.
func (tm *ormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	err := tm.engine.InTransaction(ctx, func(_ context.Context, s *orm.Session) error {
		return fn(&ormRepositoryFactory{s: s})
	})

	return translateStoreError(err)
}

// translateStoreError maps constraint violations raised while flushing to
// domain errors. Anything else is returned unchanged.
func translateStoreError(err error) error {
	var appErr domainerrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case gormstore.IsUniqueConstraintViolation(err):
		return errors.Wrap(domainerrors.ErrConflict.WithDetails(errors.Cause(err).Error()), "unique constraint")
	case gormstore.IsForeignKeyConstraintViolation(err), gormstore.IsNotNullConstraintViolation(err),
		gormstore.IsCheckConstraintViolation(err):
		return domainerrors.NewDatabaseExecuteError(err, "constraint violation")
	default:
		return err
	}
}
