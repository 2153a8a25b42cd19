package order

import (
	"ddd-course/domain/shared"
)

const (
	EventOrderCreated             = "order.created"
	EventOrderItemAdded           = "order.item_added"
	EventOrderItemQuantityChanged = "order.item_quantity_changed"
	EventOrderItemRemoved         = "order.item_removed"
	EventOrderPaid                = "order.paid"
	EventOrderShipped             = "order.shipped"
	EventOrderCancelled           = "order.cancelled"
)

type OrderCreated struct {
	shared.EventBase
	CustomerID shared.ID `json:"customer_id"`
	Currency   string    `json:"currency"`
}

func (OrderCreated) EventName() string { return EventOrderCreated }

type OrderItemAdded struct {
	shared.EventBase
	ProductID   shared.ID    `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    Quantity     `json:"quantity"`
	UnitPrice   shared.Money `json:"unit_price"`
}

func (OrderItemAdded) EventName() string { return EventOrderItemAdded }

type OrderItemQuantityChanged struct {
	shared.EventBase
	ProductID   shared.ID `json:"product_id"`
	OldQuantity Quantity  `json:"old_quantity"`
	NewQuantity Quantity  `json:"new_quantity"`
}

func (OrderItemQuantityChanged) EventName() string { return EventOrderItemQuantityChanged }

type OrderItemRemoved struct {
	shared.EventBase
	ProductID shared.ID `json:"product_id"`
}

func (OrderItemRemoved) EventName() string { return EventOrderItemRemoved }

type OrderPaid struct {
	shared.EventBase
	Total shared.Money `json:"total"`
}

func (OrderPaid) EventName() string { return EventOrderPaid }

type OrderShipped struct {
	shared.EventBase
}

func (OrderShipped) EventName() string { return EventOrderShipped }

type OrderCancelled struct {
	shared.EventBase
	Reason string `json:"reason"`
}

func (OrderCancelled) EventName() string { return EventOrderCancelled }
