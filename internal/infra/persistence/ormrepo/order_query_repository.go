package ormrepo

import (
	"context"
	"time"

	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/orm"
)

type orderQueryRepository struct {
	s *orm.Session
}

// NewOrderQueryRepository is the constructor for orderQueryRepository.
func NewOrderQueryRepository(s *orm.Session) repository.OrderQueryRepository {
	return &orderQueryRepository{s: s}
}

// orderHeader is OrderQueryDto without its lines.
type orderHeader struct {
	OrderID     int64
	Name        string
	OrderDate   time.Time
	OrderStatus entity.OrderStatus
	Address     entity.Address
}

// FindOrderQueryDtos reads the order headers, then all of their lines with a
// single IN statement.
func (repo *orderQueryRepository) FindOrderQueryDtos(ctx context.Context) ([]repository.OrderQueryDto, error) {
	q := orm.From[entity.Order]("o").
		Join("o.Member", "m").
		LeftJoin("o.Delivery", "d").
		OrderBy(orm.Asc(orm.P("o")))
	headers, err := orm.SelectInto[orderHeader](ctx, repo.s, q,
		orm.P("o"), orm.P("m.Name"), orm.P("o.OrderDate"), orm.P("o.Status"), orm.P("d.Address"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to select order headers")
	}
	if len(headers) == 0 {
		return nil, nil
	}

	ids := make([]any, len(headers))
	for i, h := range headers {
		ids[i] = h.OrderID
	}
	lines, err := orm.SelectInto[repository.OrderItemQueryDto](ctx, repo.s,
		orm.From[entity.OrderItem]("oi").
			Join("oi.Item", "i").
			Where(orm.In(orm.P("oi.Order"), ids...)).
			OrderBy(orm.Asc(orm.P("oi"))),
		orm.P("oi.Order"), orm.P("i.Name"), orm.P("oi.OrderPrice"), orm.P("oi.Count"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to select order lines")
	}

	byOrder := make(map[int64][]repository.OrderItemQueryDto, len(headers))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], line)
	}

	out := make([]repository.OrderQueryDto, len(headers))
	for i, h := range headers {
		out[i] = repository.OrderQueryDto{
			OrderID:     h.OrderID,
			Name:        h.Name,
			OrderDate:   h.OrderDate,
			OrderStatus: h.OrderStatus,
			Address:     h.Address,
			OrderItems:  byOrder[h.OrderID],
		}
	}

	return out, nil
}

func (repo *orderQueryRepository) FindOrderFlatDtos(ctx context.Context) ([]repository.OrderFlatDto, error) {
	q := orm.From[entity.Order]("o").
		Join("o.Member", "m").
		LeftJoin("o.Delivery", "d").
		Join("o.OrderItems", "oi").
		Join("oi.Item", "i").
		OrderBy(orm.Asc(orm.P("o")), orm.Asc(orm.P("oi")))
	rows, err := orm.SelectInto[repository.OrderFlatDto](ctx, repo.s, q,
		orm.P("o"), orm.P("m.Name"), orm.P("o.OrderDate"), orm.P("o.Status"), orm.P("d.Address"),
		orm.P("i.Name"), orm.P("oi.OrderPrice"), orm.P("oi.Count"))

	return rows, errors.Wrap(err, "failed to select flat orders")
}

func (repo *orderQueryRepository) SummarizeByStatus(ctx context.Context) ([]repository.OrderStatusSummary, error) {
	q := orm.From[entity.Order]("o").
		Join("o.OrderItems", "oi").
		GroupBy(orm.P("o.Status")).
		OrderBy(orm.Asc(orm.P("o.Status")))
	rows, err := orm.SelectInto[repository.OrderStatusSummary](ctx, repo.s, q,
		orm.P("o.Status"),
		orm.CountDistinct(orm.P("o")),
		orm.Sum(orm.Times(orm.P("oi.OrderPrice"), orm.P("oi.Count"))))

	return rows, errors.Wrap(err, "failed to summarize orders")
}
