package impl

import (
	"context"
	"log/slog"

	deliverycontext "ormlab/internal/delivery/context"
	"ormlab/internal/domain/entity"
	domainerrors "ormlab/internal/domain/errors"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/usecase"

	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		logger:    orDiscard(params.Logger),
	}
}

// log returns the run-scoped logger if available, otherwise the service logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Order creates the order with one line and a delivery to the member's
// address. The line and delivery are saved through the order's cascade.
func (srv *orderService) Order(ctx context.Context, input usecase.PlaceOrderInput) (int64, error) {
	if err := validateInput(input); err != nil {
		return 0, err
	}

	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		member, err := findMember(ctx, repoFactory.NewMemberRepository(), input.MemberID)
		if err != nil {
			return err
		}
		item, err := findItem(ctx, repoFactory.NewItemRepository(), input.ItemID)
		if err != nil {
			return err
		}

		orderItem, err := entity.NewOrderItem(item, item.Price, input.Count)
		if err != nil {
			return err
		}
		order = entity.CreateOrder(member, entity.NewDelivery(member.Address), orderItem)

		return repoFactory.NewOrderRepository().Save(ctx, order)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to place order", slog.Int64("memberID", input.MemberID),
			slog.Int64("itemID", input.ItemID), slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to execute order transaction")
	}

	srv.log(ctx).Info("Order placed", slog.Int64("orderID", order.ID), slog.Int64("memberID", input.MemberID))

	return order.ID, nil
}

// CancelOrder locks the order row, then cancels it; stock changes are
// flushed with the order.
func (srv *orderService) CancelOrder(ctx context.Context, orderID int64) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		order, err := repoFactory.NewOrderRepository().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound.WithDetails(formatID(orderID))
		}
		if err != nil {
			return err
		}

		return order.Cancel(ctx)
	})
	if err != nil {
		return errors.Wrap(err, "failed to cancel order")
	}

	srv.log(ctx).Info("Order cancelled", slog.Int64("orderID", orderID))

	return nil
}

// FindOrders copies what callers need while the transaction is open: member
// and lines load lazily and would be unreachable afterwards.
func (srv *orderService) FindOrders(ctx context.Context, search repository.OrderSearch) ([]usecase.OrderSummary, error) {
	var out []usecase.OrderSummary
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orders, err := repoFactory.NewOrderRepository().FindAll(ctx, search)
		if err != nil {
			return err
		}

		out = make([]usecase.OrderSummary, 0, len(orders))
		for _, o := range orders {
			member, err := o.Member.Get(ctx)
			if err != nil {
				return err
			}
			total, err := o.TotalPrice(ctx)
			if err != nil {
				return err
			}
			out = append(out, usecase.OrderSummary{
				OrderID:    o.ID,
				MemberName: member.Name,
				Status:     o.Status,
				OrderDate:  o.OrderDate,
				TotalPrice: total,
			})
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orders")
	}

	return out, nil
}
