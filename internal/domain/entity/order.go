package entity

import (
	"context"
	"fmt"
	"time"

	domainerrors "ormlab/internal/domain/errors"
	"ormlab/internal/orm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusOrder  OrderStatus = "ORDER"
	OrderStatusCancel OrderStatus = "CANCEL"
)

// Order is a purchase by a member. Lines and delivery belong to the order:
// they are persisted and removed with it, and a line dropped from OrderItems
// is deleted at the next flush.
type Order struct {
	ID        int64 `orm:"column:order_id;primaryKey;autoIncrement"`
	OrderDate time.Time
	Status    OrderStatus

	Member     orm.Ref[Member]           `orm:"notNull"`
	Delivery   orm.Ref[Delivery]         `orm:"cascade:all"`
	OrderItems orm.Collection[OrderItem] `orm:"mappedBy:Order;cascade:all;orphanRemoval"`
}

// CreateOrder builds a new order for member with the given lines.
func CreateOrder(member *Member, delivery *Delivery, items ...*OrderItem) *Order {
	o := &Order{OrderDate: now().UTC(), Status: OrderStatusOrder}
	o.SetMember(member)
	o.SetDelivery(delivery)
	for _, oi := range items {
		o.AddOrderItem(oi)
	}

	return o
}

// SetMember points the order at member and adds it to member.Orders.
func (o *Order) SetMember(member *Member) {
	orm.Link(o, &o.Member, member, ordersOf)
}

// AddOrderItem attaches a line to the order on both sides.
func (o *Order) AddOrderItem(oi *OrderItem) {
	orm.Link(oi, &oi.Order, o, orderItemsOf)
}

// SetDelivery links the delivery on both sides.
func (o *Order) SetDelivery(delivery *Delivery) {
	orm.LinkOne(o, &o.Delivery, delivery, func(d *Delivery) *orm.Ref[Order] { return &d.Order })
}

// Cancel marks the order cancelled and returns the stock of every line.
// A delivered order cannot be cancelled.
func (o *Order) Cancel(ctx context.Context) error {
	if o.Status == OrderStatusCancel {
		return domainerrors.ErrAlreadyCancelled.WithDetails(fmt.Sprintf("order %d", o.ID))
	}

	delivery, err := o.Delivery.Get(ctx)
	if err != nil {
		return err
	}
	if delivery != nil && delivery.Status == DeliveryComp {
		return domainerrors.ErrAlreadyDelivered.WithDetails(fmt.Sprintf("order %d", o.ID))
	}

	items, err := o.OrderItems.All(ctx)
	if err != nil {
		return err
	}
	for _, oi := range items {
		if err := oi.Cancel(ctx); err != nil {
			return err
		}
	}
	o.Status = OrderStatusCancel

	return nil
}

// TotalPrice sums the lines, loading them if needed.
func (o *Order) TotalPrice(ctx context.Context) (int, error) {
	items, err := o.OrderItems.All(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, oi := range items {
		total += oi.TotalPrice()
	}

	return total, nil
}

func ordersOf(m *Member) *orm.Collection[Order] {
	return &m.Orders
}

func orderItemsOf(o *Order) *orm.Collection[OrderItem] {
	return &o.OrderItems
}
