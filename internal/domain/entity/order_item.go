package entity

import (
	"context"

	"ormlab/internal/orm"
)

// OrderItem is one line of an order: an item, its price at order time and a count.
type OrderItem struct {
	ID         int64 `orm:"column:order_item_id;primaryKey;autoIncrement"`
	OrderPrice int
	Count      int

	Item  orm.Ref[Item] `orm:"notNull"`
	Order orm.Ref[Order]
}

// NewOrderItem creates an order line and takes count off the item's stock.
func NewOrderItem(item *Item, orderPrice, count int) (*OrderItem, error) {
	if err := item.RemoveStock(count); err != nil {
		return nil, err
	}

	return &OrderItem{
		OrderPrice: orderPrice,
		Count:      count,
		Item:       orm.RefTo(item),
	}, nil
}

// Cancel puts the ordered count back into stock.
func (oi *OrderItem) Cancel(ctx context.Context) error {
	item, err := oi.Item.Get(ctx)
	if err != nil {
		return err
	}
	item.AddStock(oi.Count)

	return nil
}

// TotalPrice is the price of the line.
func (oi *OrderItem) TotalPrice() int {
	return oi.OrderPrice * oi.Count
}
