/*
Package order - 订单领域错误定义

哨兵错误都包装 shared.ErrBusinessRule，调用方既可以按具体原因判断，
也可以按错误类别判断:
  - errors.Is(err, order.ErrItemNotFound)
  - errors.Is(err, shared.ErrBusinessRule)
*/
package order

import (
	"fmt"

	"ddd-course/domain/shared"
)

// ============================================================================
// 订单领域哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrTooManyItems 订单项数量超过上限
	ErrTooManyItems = fmt.Errorf("too many order items: %w", shared.ErrBusinessRule)

	// ErrQuantityLimit 单个订单项数量超过上限
	ErrQuantityLimit = fmt.Errorf("item quantity limit exceeded: %w", shared.ErrBusinessRule)

	// ErrItemNotFound 订单项不存在
	ErrItemNotFound = fmt.Errorf("item not found: %w", shared.ErrBusinessRule)

	// ErrEmptyOrder 空订单不能支付
	ErrEmptyOrder = fmt.Errorf("order has no items: %w", shared.ErrBusinessRule)
)

// ============================================================================
// 订单领域错误构造函数
// ============================================================================

// NewTooManyItemsError 订单项数量超过上限
func NewTooManyItemsError() error {
	return shared.NewDomainError(ErrTooManyItems, entityName, "add_item", "items",
		fmt.Sprintf("cannot add more than %d items to an order", MaxItemsPerOrder))
}

// NewQuantityLimitError 数量必须在 1..MaxQuantityPerItem 之间
func NewQuantityLimitError(op string, productName string, quantity int) error {
	return shared.NewDomainError(ErrQuantityLimit, entityName, op, "quantity",
		fmt.Sprintf("quantity of %s must be between 1 and %d, got %d", productName, MaxQuantityPerItem, quantity))
}

// NewItemNotFoundError 订单中不存在该商品
func NewItemNotFoundError(op string, productID shared.ID) error {
	return shared.NewDomainError(ErrItemNotFound, entityName, op, "product_id",
		fmt.Sprintf("product %s is not in the order", productID))
}

// NewEmptyOrderError 空订单不能支付
func NewEmptyOrderError() error {
	return shared.NewDomainError(ErrEmptyOrder, entityName, "pay", "items", "cannot pay an empty order")
}
