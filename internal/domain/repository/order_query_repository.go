package repository

import (
	"context"
	"time"

	"ormlab/internal/domain/entity"
)

// OrderQueryDto is a read model of an order with its lines.
type OrderQueryDto struct {
	OrderID     int64
	Name        string
	OrderDate   time.Time
	OrderStatus entity.OrderStatus
	Address     entity.Address
	OrderItems  []OrderItemQueryDto
}

// OrderItemQueryDto is one line of an OrderQueryDto.
type OrderItemQueryDto struct {
	OrderID    int64
	ItemName   string
	OrderPrice int
	Count      int
}

// OrderFlatDto is one order line joined with its order and member.
type OrderFlatDto struct {
	OrderID     int64
	Name        string
	OrderDate   time.Time
	OrderStatus entity.OrderStatus
	Address     entity.Address
	ItemName    string
	OrderPrice  int
	Count       int
}

// OrderStatusSummary aggregates orders by status.
type OrderStatusSummary struct {
	Status  entity.OrderStatus
	Orders  int64
	Revenue int64
}

// OrderQueryRepository reads orders straight into DTOs. The results are not
// managed and changing them writes nothing.
type OrderQueryRepository interface {
	// FindOrderQueryDtos returns every order with its lines using two statements.
	FindOrderQueryDtos(ctx context.Context) ([]OrderQueryDto, error)

	// FindOrderFlatDtos returns one row per order line.
	FindOrderFlatDtos(ctx context.Context) ([]OrderFlatDto, error)

	// SummarizeByStatus groups orders by status with their revenue.
	SummarizeByStatus(ctx context.Context) ([]OrderStatusSummary, error)
}
