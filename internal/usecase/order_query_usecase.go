package usecase

import (
	"context"
	"time"

	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
)

// OrderView is an order with its lines, copied out of the transaction.
type OrderView struct {
	OrderID   int64
	Name      string
	OrderDate time.Time
	Status    entity.OrderStatus
	Address   entity.Address
	Items     []OrderItemView
}

// OrderItemView is one line of an OrderView.
type OrderItemView struct {
	ItemName   string
	OrderPrice int
	Count      int
}

// OrderQueryUsecase gathers the read paths over orders, each loading the
// same data with a different statement pattern.
type OrderQueryUsecase interface {
	// OrdersWithFetchJoin loads everything in a single statement. It cannot be paged.
	OrdersWithFetchJoin(ctx context.Context) ([]OrderView, error)

	// OrdersPaged fetch-joins the to-one side with a window and loads lines and
	// items lazily, in batches when batch fetching is enabled.
	OrdersPaged(ctx context.Context, offset, limit int) ([]OrderView, error)

	// OrderDtos projects orders straight into DTOs.
	OrderDtos(ctx context.Context) ([]repository.OrderQueryDto, error)

	// OrderDtosFlat projects one row per line and groups them in memory.
	OrderDtosFlat(ctx context.Context) ([]repository.OrderQueryDto, error)

	// StatusSummary aggregates orders by status.
	StatusSummary(ctx context.Context) ([]repository.OrderStatusSummary, error)
}
