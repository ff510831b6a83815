package entity

import "ormlab/internal/orm"

// DeliveryStatus is the shipping state of an order.
type DeliveryStatus string

const (
	DeliveryReady DeliveryStatus = "READY"
	DeliveryComp  DeliveryStatus = "COMP"
)

// Delivery is where and how an order is shipped. It is created and removed
// together with its order.
type Delivery struct {
	ID      int64 `orm:"column:delivery_id;primaryKey;autoIncrement"`
	Address Address
	Status  DeliveryStatus

	// Order is the inverse side of Order.Delivery.
	Order orm.Ref[Order] `orm:"mappedBy:Delivery"`
}

// NewDelivery creates a transient delivery ready to ship to address.
func NewDelivery(address Address) *Delivery {
	return &Delivery{Address: address, Status: DeliveryReady}
}
