package memory

import (
	"context"

	"ddd-course/domain/course"
	"ddd-course/domain/order"
	"ddd-course/domain/shared"
	"ddd-course/domain/shipment"
)

// ============================================================================
// Course
// ============================================================================

// CourseRepository in-memory course.Repository
type CourseRepository struct {
	store *store[course.ReconstructionDTO]
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{store: newStore[course.ReconstructionDTO]("course")}
}

func (r *CourseRepository) Save(ctx context.Context, c *course.Course) error {
	return r.store.put(ctx, c, c.Snapshot())
}

func (r *CourseRepository) FindByID(ctx context.Context, id shared.ID) (*course.Course, error) {
	dto, err := r.store.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return course.Rebuild(dto)
}

func (r *CourseRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*course.Course]) ([]*course.Course, error) {
	return filter(ctx, r.store, course.Rebuild, spec)
}

// Count number of stored courses
func (r *CourseRepository) Count() int { return r.store.count() }

// ============================================================================
// Shipment
// ============================================================================

// ShipmentRepository in-memory shipment.Repository
type ShipmentRepository struct {
	store *store[shipment.ReconstructionDTO]
}

func NewShipmentRepository() *ShipmentRepository {
	return &ShipmentRepository{store: newStore[shipment.ReconstructionDTO]("shipment")}
}

func (r *ShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	return r.store.put(ctx, s, s.Snapshot())
}

func (r *ShipmentRepository) FindByID(ctx context.Context, id shared.ID) (*shipment.Shipment, error) {
	dto, err := r.store.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return shipment.Rebuild(dto)
}

func (r *ShipmentRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*shipment.Shipment]) ([]*shipment.Shipment, error) {
	return filter(ctx, r.store, shipment.Rebuild, spec)
}

// ============================================================================
// Order
// ============================================================================

// OrderRepository in-memory order.Repository
type OrderRepository struct {
	store *store[order.ReconstructionDTO]
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{store: newStore[order.ReconstructionDTO]("order")}
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.store.put(ctx, o, o.Snapshot())
}

func (r *OrderRepository) FindByID(ctx context.Context, id shared.ID) (*order.Order, error) {
	dto, err := r.store.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return order.Rebuild(dto)
}

func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID shared.ID) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByCustomerIDSpecification(customerID))
}

func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	return filter(ctx, r.store, order.Rebuild, spec)
}

var (
	_ course.Repository   = (*CourseRepository)(nil)
	_ shipment.Repository = (*ShipmentRepository)(nil)
	_ order.Repository    = (*OrderRepository)(nil)
)
