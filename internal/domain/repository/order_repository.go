package repository

import (
	"context"
	"errors"

	"ormlab/internal/domain/entity"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderSearch filters orders. Zero fields do not filter.
type OrderSearch struct {
	MemberName  string
	OrderStatus entity.OrderStatus
}

// OrderRepository defines the operations for order persistence.
type OrderRepository interface {
	// Save makes a new order managed together with its lines and delivery.
	Save(ctx context.Context, order *entity.Order) error

	// FindByID retrieves a single order by ID.
	FindByID(ctx context.Context, id int64) (*entity.Order, error)

	// FindByIDForUpdate is FindByID holding a row lock where the store supports it.
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.Order, error)

	// FindAll returns orders matching search, newest first.
	FindAll(ctx context.Context, search OrderSearch) ([]*entity.Order, error)

	// FindAllWithMemberDelivery fetches a window of orders with member and delivery
	// in one statement.
	FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]*entity.Order, error)

	// FindAllWithItems fetches orders with their lines and items in one statement.
	// It cannot be paged.
	FindAllWithItems(ctx context.Context) ([]*entity.Order, error)
}
