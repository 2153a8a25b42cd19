package po

import (
	"time"

	"ddd-course/domain/order"
	"ddd-course/domain/shared"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID           string    `gorm:"primaryKey;size:36"`
	CustomerID   string    `gorm:"size:36;index;not null"` // Only store ID, no association with a customer table
	Currency     string    `gorm:"size:3;not null"`
	Status       string    `gorm:"size:20;index;not null"`
	CancelReason string    `gorm:"size:255"`
	Version      int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"index;not null"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	OrderID     string `gorm:"primaryKey;size:36"` // Only store ID, no GORM association
	ProductID   string `gorm:"primaryKey;size:36"`
	ProductName string `gorm:"size:255;not null"`
	Quantity    int    `gorm:"not null"`
	UnitPrice   int64  `gorm:"not null"`
	Position    int    `gorm:"not null"`
}

// TableName Specify table name
func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain Convert domain model to persistence object
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	dto := o.Snapshot()
	orderPO := &OrderPO{
		ID:           dto.ID.String(),
		CustomerID:   dto.CustomerID.String(),
		Currency:     dto.Currency,
		Status:       string(dto.Status),
		CancelReason: dto.CancelReason,
		Version:      dto.Version,
		CreatedAt:    dto.CreatedAt,
	}

	itemPOs := make([]OrderItemPO, len(dto.Items))
	for i, item := range dto.Items {
		itemPOs[i] = OrderItemPO{
			OrderID:     orderPO.ID,
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Position:    i,
		}
	}

	return orderPO, itemPOs
}

// ToDomain Convert persistence object to domain model.
// itemPOs must be ordered by Position.
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) (*order.Order, error) {
	id, err := shared.ParseID(po.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := shared.ParseID(po.CustomerID)
	if err != nil {
		return nil, err
	}

	items := make([]order.ItemDTO, len(itemPOs))
	for i, itemPO := range itemPOs {
		productID, err := shared.ParseID(itemPO.ProductID)
		if err != nil {
			return nil, err
		}
		items[i] = order.ItemDTO{
			ProductID:   productID,
			ProductName: itemPO.ProductName,
			Quantity:    itemPO.Quantity,
			UnitPrice:   itemPO.UnitPrice,
		}
	}

	return order.Rebuild(order.ReconstructionDTO{
		ID:           id,
		CustomerID:   customerID,
		Currency:     po.Currency,
		Status:       order.Status(po.Status),
		Items:        items,
		CancelReason: po.CancelReason,
		CreatedAt:    po.CreatedAt,
		Version:      po.Version,
	})
}
