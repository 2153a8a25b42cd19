package shipment

import (
	"context"

	"ddd-course/domain/shared"
)

// ByStatusSpecification filters shipments by status
type ByStatusSpecification struct {
	Status Status
}

// IsSatisfiedBy returns true if the shipment has the specified status
func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, s *Shipment) bool {
	return s.Status() == spec.Status
}

// ContainsOrderSpecification filters shipments carrying a parcel of the order
type ContainsOrderSpecification struct {
	OrderID shared.ID
}

// IsSatisfiedBy returns true if the shipment has a parcel for the order
func (spec ContainsOrderSpecification) IsSatisfiedBy(ctx context.Context, s *Shipment) bool {
	return s.HasParcelFor(spec.OrderID)
}

// NewByStatusSpecification creates a specification to filter by status
func NewByStatusSpecification(status Status) shared.Specification[*Shipment] {
	return ByStatusSpecification{Status: status}
}

// NewContainsOrderSpecification creates a specification to filter by carried order
func NewContainsOrderSpecification(orderID shared.ID) shared.Specification[*Shipment] {
	return ContainsOrderSpecification{OrderID: orderID}
}
