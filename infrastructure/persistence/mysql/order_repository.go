package mysql

import (
	"context"

	"ddd-course/domain/order"
	"ddd-course/domain/shared"
	"ddd-course/infrastructure/persistence/mysql/po"
	"ddd-course/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// OrderRepository MySQL/GORM implementation of order repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Save Save order (create or update)
// When called within UoW.Execute(), it uses the transaction from context
// When called standalone, it creates its own transaction for atomicity
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if o.ID().IsZero() {
		return shared.NewNotInitializedError("order", "save")
	}
	orderPO, itemPOs := po.FromOrderDomain(o)

	err := inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := writeRoot(tx, "order", o, orderPO); err != nil {
			return err
		}
		// Simple strategy for items: delete then insert
		return replaceChildren(tx, "order_id", orderPO.ID, itemPOs)
	})
	if err != nil {
		return err
	}
	o.MarkPersisted()
	return nil
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id shared.ID) (*order.Order, error) {
	db := dbFromContext(ctx, r.db)
	var orderPO po.OrderPO
	if err := db.First(&orderPO, "id = ?", id.String()).Error; err != nil {
		return nil, notFound(err, "order", id)
	}
	return r.load(db, &orderPO)
}

// FindByCustomerID Find order list by customer ID, oldest first
func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID shared.ID) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByCustomerIDSpecification(customerID))
}

// FindBySpecification Find orders satisfying spec
func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	db := dbFromContext(ctx, r.db)
	var orderPOs []po.OrderPO
	if err := specification.Order(spec).Apply(db.Model(&po.OrderPO{})).
		Order("created_at ASC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(orderPOs))
	for i := range orderPOs {
		o, err := r.load(db, &orderPOs[i])
		if err != nil {
			return nil, err
		}
		if spec == nil || spec.IsSatisfiedBy(ctx, o) {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (r *OrderRepository) load(db *gorm.DB, orderPO *po.OrderPO) (*order.Order, error) {
	// Manually query order items (do not use GORM's Preload to keep aggregate boundaries clear)
	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", orderPO.ID).Order("position ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	return orderPO.ToDomain(itemPOs)
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
