/*
Package order Order aggregate

Order is the aggregate root and the only way to reach its OrderItems. Items reference
products by id; product name and unit price are frozen when the item is added.

Limits enforced at insertion:
1. at most MaxItemsPerOrder distinct products
2. at most MaxQuantityPerItem units per product
3. every unit price is in the order currency
*/
package order

import (
	"strings"
	"time"

	"ddd-course/domain/shared"
)

const entityName = "order"

const (
	MaxItemsPerOrder   = 10
	MaxQuantityPerItem = 100
)

// Status Order status enum
type Status string

const (
	StatusPending   Status = "PENDING"   // Pending
	StatusPaid      Status = "PAID"      // Paid
	StatusShipped   Status = "SHIPPED"   // Shipped
	StatusCancelled Status = "CANCELLED" // Cancelled
)

// IsValid reports a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCancelled:
		return true
	}
	return false
}

// OrderItem entity inside the aggregate, identified by product id
type OrderItem struct {
	productID   shared.ID
	productName string
	quantity    Quantity
	unitPrice   shared.Money
}

func (i OrderItem) ProductID() shared.ID    { return i.productID }
func (i OrderItem) ProductName() string     { return i.productName }
func (i OrderItem) Quantity() Quantity      { return i.quantity }
func (i OrderItem) UnitPrice() shared.Money { return i.unitPrice }

// Subtotal unit price times quantity
func (i OrderItem) Subtotal() (shared.Money, error) {
	return i.unitPrice.Multiply(i.quantity.Int())
}

// Order Order aggregate root
// All modifications to Order and OrderItem must go through the Order aggregate root
type Order struct {
	root shared.Root

	customerID   shared.ID
	currency     string
	status       Status
	items        []OrderItem
	cancelReason string
	createdAt    time.Time
}

// ============================================================================
// Factory Methods - Creating Aggregate Roots
// ============================================================================

// Create creates an empty PENDING order, version 1, with an OrderCreated event
func Create(customerID shared.ID, currency string) (*Order, error) {
	if customerID.IsZero() {
		return nil, shared.NewValidationError(entityName, "customer_id", "customer id is required")
	}
	if _, err := shared.Zero(currency); err != nil {
		return nil, err
	}

	id := shared.NewID()
	o := &Order{
		customerID: customerID,
		currency:   currency,
		status:     StatusPending,
		createdAt:  time.Now().UTC(),
	}
	o.root.Initialize(id, OrderCreated{
		EventBase:  shared.NewEventBase(id),
		CustomerID: customerID,
		Currency:   currency,
	})
	return o, nil
}

// ============================================================================
// Aggregate Root Behavior Methods
// ============================================================================

// AddItem adds quantity units of product.
// An existing line is merged (OrderItemQuantityChanged), a new product opens a new line
// (OrderItemAdded).
func (o *Order) AddItem(product Product, quantity Quantity) error {
	const op = "add_item"
	if err := o.root.Guard(entityName, op); err != nil {
		return err
	}
	if o.status != StatusPending {
		return shared.NewInvalidStatusError(entityName, op, string(o.status), string(StatusPending))
	}
	if quantity.Int() <= 0 || quantity.Int() > MaxQuantityPerItem {
		return NewQuantityLimitError(op, product.Name(), quantity.Int())
	}
	if product.Price().Currency() != o.currency {
		return shared.NewUnitMismatchError(entityName, op, o.currency, product.Price().Currency())
	}

	if idx := o.indexOf(product.ID()); idx >= 0 {
		old := o.items[idx].quantity
		merged := old.Add(quantity)
		if merged.Int() > MaxQuantityPerItem {
			return NewQuantityLimitError(op, product.Name(), merged.Int())
		}
		o.items[idx].quantity = merged
		o.root.Commit(OrderItemQuantityChanged{
			EventBase:   shared.NewEventBase(o.root.ID()),
			ProductID:   product.ID(),
			OldQuantity: old,
			NewQuantity: merged,
		})
		return nil
	}

	if len(o.items) >= MaxItemsPerOrder {
		return NewTooManyItemsError()
	}
	o.items = append(o.items, OrderItem{
		productID:   product.ID(),
		productName: product.Name(),
		quantity:    quantity,
		unitPrice:   product.Price(),
	})
	o.root.Commit(OrderItemAdded{
		EventBase:   shared.NewEventBase(o.root.ID()),
		ProductID:   product.ID(),
		ProductName: product.Name(),
		Quantity:    quantity,
		UnitPrice:   product.Price(),
	})
	return nil
}

// RemoveItem removes the line of the product
func (o *Order) RemoveItem(productID shared.ID) error {
	const op = "remove_item"
	if err := o.root.Guard(entityName, op); err != nil {
		return err
	}
	if o.status != StatusPending {
		return shared.NewInvalidStatusError(entityName, op, string(o.status), string(StatusPending))
	}
	idx := o.indexOf(productID)
	if idx < 0 {
		return NewItemNotFoundError(op, productID)
	}

	o.items = append(o.items[:idx:idx], o.items[idx+1:]...)
	o.root.Commit(OrderItemRemoved{
		EventBase: shared.NewEventBase(o.root.ID()),
		ProductID: productID,
	})
	return nil
}

// ChangeItemQuantity replaces the quantity of an existing line
func (o *Order) ChangeItemQuantity(productID shared.ID, quantity Quantity) error {
	const op = "change_item_quantity"
	if err := o.root.Guard(entityName, op); err != nil {
		return err
	}
	if o.status != StatusPending {
		return shared.NewInvalidStatusError(entityName, op, string(o.status), string(StatusPending))
	}
	idx := o.indexOf(productID)
	if idx < 0 {
		return NewItemNotFoundError(op, productID)
	}
	if quantity.Int() <= 0 || quantity.Int() > MaxQuantityPerItem {
		return NewQuantityLimitError(op, o.items[idx].productName, quantity.Int())
	}

	old := o.items[idx].quantity
	o.items[idx].quantity = quantity
	o.root.Commit(OrderItemQuantityChanged{
		EventBase:   shared.NewEventBase(o.root.ID()),
		ProductID:   productID,
		OldQuantity: old,
		NewQuantity: quantity,
	})
	return nil
}

// Pay marks a non-empty pending order as paid
func (o *Order) Pay() error {
	const op = "pay"
	if err := o.root.Guard(entityName, op); err != nil {
		return err
	}
	if o.status != StatusPending {
		return shared.NewInvalidStatusError(entityName, op, string(o.status), string(StatusPending))
	}
	if len(o.items) == 0 {
		return NewEmptyOrderError()
	}
	total, err := o.Total()
	if err != nil {
		return err
	}

	o.status = StatusPaid
	o.root.Commit(OrderPaid{
		EventBase: shared.NewEventBase(o.root.ID()),
		Total:     total,
	})
	return nil
}

// Ship ships a paid order
func (o *Order) Ship() error {
	const op = "ship"
	if err := o.root.Guard(entityName, op); err != nil {
		return err
	}
	if o.status != StatusPaid {
		return shared.NewInvalidStatusError(entityName, op, string(o.status), string(StatusPaid))
	}

	o.status = StatusShipped
	o.root.Commit(OrderShipped{EventBase: shared.NewEventBase(o.root.ID())})
	return nil
}

// Cancel cancels a pending or paid order
func (o *Order) Cancel(reason string) error {
	const op = "cancel"
	if err := o.root.Guard(entityName, op); err != nil {
		return err
	}
	if o.status != StatusPending && o.status != StatusPaid {
		return shared.NewInvalidStatusError(entityName, op, string(o.status),
			string(StatusPending), string(StatusPaid))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError(entityName, "reason", "cancellation reason is required")
	}

	o.status = StatusCancelled
	o.cancelReason = reason
	o.root.Commit(OrderCancelled{
		EventBase: shared.NewEventBase(o.root.ID()),
		Reason:    reason,
	})
	return nil
}

func (o *Order) indexOf(productID shared.ID) int {
	for i, item := range o.items {
		if item.productID == productID {
			return i
		}
	}
	return -1
}

// ============================================================================
// Getter Methods
// ============================================================================

func (o *Order) ID() shared.ID         { return o.root.ID() }
func (o *Order) Version() int          { return o.root.Version() }
func (o *Order) CustomerID() shared.ID { return o.customerID }
func (o *Order) Currency() string      { return o.currency }
func (o *Order) Status() Status        { return o.status }
func (o *Order) CancelReason() string  { return o.cancelReason }
func (o *Order) CreatedAt() time.Time  { return o.createdAt }

// Items returns a copy of the order items
func (o *Order) Items() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

// Total sum of item subtotals in the order currency
func (o *Order) Total() (shared.Money, error) {
	total, err := shared.Zero(o.currency)
	if err != nil {
		return shared.Money{}, err
	}
	for _, item := range o.items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return shared.Money{}, err
		}
		if total, err = total.Add(subtotal); err != nil {
			return shared.Money{}, err
		}
	}
	return total, nil
}

// PullEvents drains the recorded events
func (o *Order) PullEvents() []shared.DomainEvent { return o.root.Pull() }

// Equals identity equality
func (o *Order) Equals(other any) bool {
	p, ok := other.(*Order)
	if !ok || o == nil || p == nil {
		return false
	}
	if o.root.ID().IsZero() || p.root.ID().IsZero() {
		return o == p
	}
	return o.root.ID() == p.root.ID()
}

func (o *Order) PersistedVersion() int { return o.root.PersistedVersion() }
func (o *Order) MarkPersisted()        { o.root.MarkPersisted() }

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO Order reconstruction data transfer object
// ⚠️ Note: This DTO should only be used in repository implementation, not called from application layer
type ReconstructionDTO struct {
	ID           shared.ID
	CustomerID   shared.ID
	Currency     string
	Status       Status
	Items        []ItemDTO
	CancelReason string
	CreatedAt    time.Time
	Version      int
}

// ItemDTO Order item reconstruction data
type ItemDTO struct {
	ProductID   shared.ID
	ProductName string
	Quantity    int
	UnitPrice   int64
}

// Rebuild reconstructs an Order from stored state without recording events
func Rebuild(dto ReconstructionDTO) (*Order, error) {
	if dto.ID.IsZero() {
		return nil, shared.NewValidationError(entityName, "id", "id is required")
	}
	if !dto.Status.IsValid() {
		return nil, shared.NewValidationError(entityName, "status", "unknown status "+string(dto.Status))
	}
	o := &Order{
		customerID:   dto.CustomerID,
		currency:     dto.Currency,
		status:       dto.Status,
		cancelReason: dto.CancelReason,
		createdAt:    dto.CreatedAt,
		items:        make([]OrderItem, 0, len(dto.Items)),
	}
	for _, it := range dto.Items {
		qty, err := NewQuantity(it.Quantity)
		if err != nil {
			return nil, err
		}
		price, err := shared.NewMoney(it.UnitPrice, dto.Currency)
		if err != nil {
			return nil, err
		}
		o.items = append(o.items, OrderItem{
			productID:   it.ProductID,
			productName: it.ProductName,
			quantity:    qty,
			unitPrice:   price,
		})
	}
	o.root.Restore(dto.ID, dto.Version)
	return o, nil
}

// Snapshot returns the persisted form of the order
func (o *Order) Snapshot() ReconstructionDTO {
	items := make([]ItemDTO, len(o.items))
	for i, it := range o.items {
		items[i] = ItemDTO{
			ProductID:   it.productID,
			ProductName: it.productName,
			Quantity:    it.quantity.Int(),
			UnitPrice:   it.unitPrice.Amount(),
		}
	}
	return ReconstructionDTO{
		ID:           o.root.ID(),
		CustomerID:   o.customerID,
		Currency:     o.currency,
		Status:       o.status,
		Items:        items,
		CancelReason: o.cancelReason,
		CreatedAt:    o.createdAt,
		Version:      o.root.Version(),
	}
}

var _ shared.Versioned = (*Order)(nil)
