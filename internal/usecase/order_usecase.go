package usecase

import (
	"context"
	"time"

	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
)

// PlaceOrderInput defines a single-item order.
type PlaceOrderInput struct {
	MemberID int64 `validate:"required,gt=0"`
	ItemID   int64 `validate:"required,gt=0"`
	Count    int   `validate:"required,gt=0"`
}

// OrderSummary is an order read inside its transaction, safe to use after it ends.
type OrderSummary struct {
	OrderID    int64
	MemberName string
	Status     entity.OrderStatus
	OrderDate  time.Time
	TotalPrice int
}

// OrderUsecase defines the interface for ordering.
type OrderUsecase interface {
	// Order places an order and returns its ID. The stock is reduced accordingly.
	Order(ctx context.Context, input PlaceOrderInput) (int64, error)

	// CancelOrder cancels an order and restores the stock.
	CancelOrder(ctx context.Context, orderID int64) error

	// FindOrders searches orders.
	FindOrders(ctx context.Context, search repository.OrderSearch) ([]OrderSummary, error)
}
