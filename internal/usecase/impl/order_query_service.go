package impl

import (
	"context"
	"log/slog"

	deliverycontext "ormlab/internal/delivery/context"
	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/usecase"

	"go.uber.org/fx"
)

// orderQueryService implements the OrderQueryUsecase interface.
type orderQueryService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// OrderQueryServiceParams holds dependencies for OrderQueryService, injected by Fx.
type OrderQueryServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewOrderQueryService is the constructor for orderQueryService.
func NewOrderQueryService(params OrderQueryServiceParams) usecase.OrderQueryUsecase {
	return &orderQueryService{
		txManager: params.TxManager,
		logger:    orDiscard(params.Logger),
	}
}

// log returns the run-scoped logger if available, otherwise the service logger.
func (srv *orderQueryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *orderQueryService) OrdersWithFetchJoin(ctx context.Context) ([]usecase.OrderView, error) {
	var out []usecase.OrderView
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orders, err := repoFactory.NewOrderRepository().FindAllWithItems(ctx)
		if err != nil {
			return err
		}
		out, err = toOrderViews(ctx, orders)

		return err
	})

	return out, errors.Wrap(err, "failed to load orders with fetch join")
}

func (srv *orderQueryService) OrdersPaged(ctx context.Context, offset, limit int) ([]usecase.OrderView, error) {
	var out []usecase.OrderView
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orders, err := repoFactory.NewOrderRepository().FindAllWithMemberDelivery(ctx, offset, limit)
		if err != nil {
			return err
		}
		out, err = toOrderViews(ctx, orders)

		return err
	})

	return out, errors.Wrap(err, "failed to load order page")
}

func (srv *orderQueryService) OrderDtos(ctx context.Context) ([]repository.OrderQueryDto, error) {
	var out []repository.OrderQueryDto
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		out, err = repoFactory.NewOrderQueryRepository().FindOrderQueryDtos(ctx)

		return err
	})

	return out, errors.Wrap(err, "failed to project orders")
}

// OrderDtosFlat regroups the flat rows by order, keeping the row order.
func (srv *orderQueryService) OrderDtosFlat(ctx context.Context) ([]repository.OrderQueryDto, error) {
	var flat []repository.OrderFlatDto
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		flat, err = repoFactory.NewOrderQueryRepository().FindOrderFlatDtos(ctx)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to project flat orders")
	}

	var out []repository.OrderQueryDto
	index := make(map[int64]int)
	for _, row := range flat {
		i, ok := index[row.OrderID]
		if !ok {
			i = len(out)
			index[row.OrderID] = i
			out = append(out, repository.OrderQueryDto{
				OrderID:     row.OrderID,
				Name:        row.Name,
				OrderDate:   row.OrderDate,
				OrderStatus: row.OrderStatus,
				Address:     row.Address,
			})
		}
		out[i].OrderItems = append(out[i].OrderItems, repository.OrderItemQueryDto{
			OrderID:    row.OrderID,
			ItemName:   row.ItemName,
			OrderPrice: row.OrderPrice,
			Count:      row.Count,
		})
	}

	return out, nil
}

func (srv *orderQueryService) StatusSummary(ctx context.Context) ([]repository.OrderStatusSummary, error) {
	var out []repository.OrderStatusSummary
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		out, err = repoFactory.NewOrderQueryRepository().SummarizeByStatus(ctx)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to summarize orders")
	}

	for _, s := range out {
		srv.log(ctx).Debug("Order status", slog.String("status", string(s.Status)),
			slog.Int64("orders", s.Orders), slog.Int64("revenue", s.Revenue))
	}

	return out, nil
}

// toOrderViews walks the associations, so it must run inside the transaction.
func toOrderViews(ctx context.Context, orders []*entity.Order) ([]usecase.OrderView, error) {
	views := make([]usecase.OrderView, 0, len(orders))
	for _, o := range orders {
		member, err := o.Member.Get(ctx)
		if err != nil {
			return nil, err
		}
		view := usecase.OrderView{
			OrderID:   o.ID,
			Name:      member.Name,
			OrderDate: o.OrderDate,
			Status:    o.Status,
		}
		delivery, err := o.Delivery.Get(ctx)
		if err != nil {
			return nil, err
		}
		if delivery != nil {
			view.Address = delivery.Address
		}

		lines, err := o.OrderItems.All(ctx)
		if err != nil {
			return nil, err
		}
		for _, oi := range lines {
			item, err := oi.Item.Get(ctx)
			if err != nil {
				return nil, err
			}
			view.Items = append(view.Items, usecase.OrderItemView{
				ItemName:   item.Name,
				OrderPrice: oi.OrderPrice,
				Count:      oi.Count,
			})
		}
		views = append(views, view)
	}

	return views, nil
}
