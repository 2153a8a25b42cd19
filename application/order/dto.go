package order

import "time"

// CreateOrderRequest 表示创建订单的入参，Items 可以为空，之后再逐个添加。
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" binding:"required"`
	Currency   string             `json:"currency" binding:"required,len=3"`
	Items      []OrderItemRequest `json:"items"`
}

// OrderItemRequest 表示单个商品项。
type OrderItemRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	UnitPrice   int64  `json:"unit_price" binding:"min=0"`
}

// ChangeQuantityRequest 表示修改商品数量的入参。
type ChangeQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CancelOrderRequest 表示取消订单的入参。
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OrderResponse 表示订单返回模型。
type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id"`
	Items        []OrderItemResponse `json:"items"`
	Total        MoneyResponse       `json:"total"`
	Status       string              `json:"status"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	Version      int                 `json:"version"`
}

// OrderItemResponse 表示订单项返回模型。
type OrderItemResponse struct {
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	Quantity    int           `json:"quantity"`
	UnitPrice   MoneyResponse `json:"unit_price"`
	Subtotal    MoneyResponse `json:"subtotal"`
}

// MoneyResponse 表示金额返回模型。
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
