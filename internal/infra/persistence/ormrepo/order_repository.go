package ormrepo

import (
	"context"

	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/orm"
	"ormlab/internal/orm/store"
)

type orderRepository struct {
	s *orm.Session
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(s *orm.Session) repository.OrderRepository {
	return &orderRepository{s: s}
}

// Save persists the order; lines and delivery follow through the cascade.
func (repo *orderRepository) Save(_ context.Context, order *entity.Order) error {
	return errors.Wrap(repo.s.Persist(order), "failed to save order")
}

func (repo *orderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := orm.Find[entity.Order](ctx, repo.s, id)
	if err != nil {
		if errors.Is(err, orm.ErrEntityNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return order, nil
}

func (repo *orderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := orm.From[entity.Order]("o").
		Where(orm.Eq(orm.P("o"), id)).
		Lock(store.LockPessimisticWrite).
		Single(ctx, repo.s)
	if err != nil {
		if errors.Is(err, orm.ErrNoResult) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to lock order")
	}

	return order, nil
}

func (repo *orderRepository) FindAll(ctx context.Context, search repository.OrderSearch) ([]*entity.Order, error) {
	var preds []orm.Predicate
	if search.OrderStatus != "" {
		preds = append(preds, orm.Eq(orm.P("o.Status"), search.OrderStatus))
	}
	if search.MemberName != "" {
		preds = append(preds, orm.Like(orm.P("m.Name"), "%"+search.MemberName+"%"))
	}

	orders, err := orm.From[entity.Order]("o").
		Join("o.Member", "m").
		Where(preds...).
		OrderBy(orm.Desc(orm.P("o.OrderDate")), orm.Desc(orm.P("o"))).
		Limit(1000).
		List(ctx, repo.s)

	return orders, errors.Wrap(err, "failed to search orders")
}

// FindAllWithMemberDelivery only fetches to-one associations, so the window
// applies to orders.
func (repo *orderRepository) FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]*entity.Order, error) {
	orders, err := orm.From[entity.Order]("o").
		FetchJoin("o.Member", "m").
		LeftFetchJoin("o.Delivery", "d").
		OrderBy(orm.Asc(orm.P("o"))).
		Offset(offset).
		Limit(limit).
		List(ctx, repo.s)

	return orders, errors.Wrap(err, "failed to find orders with member and delivery")
}

func (repo *orderRepository) FindAllWithItems(ctx context.Context) ([]*entity.Order, error) {
	orders, err := orm.From[entity.Order]("o").
		FetchJoin("o.Member", "m").
		LeftFetchJoin("o.Delivery", "d").
		LeftFetchJoin("o.OrderItems", "oi").
		LeftFetchJoin("oi.Item", "i").
		Distinct().
		OrderBy(orm.Asc(orm.P("o")), orm.Asc(orm.P("oi"))).
		List(ctx, repo.s)

	return orders, errors.Wrap(err, "failed to find orders with items")
}
