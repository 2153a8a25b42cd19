package order

import (
	"context"
	"time"

	"ddd-course/domain/shared"
)

// ByCustomerIDSpecification filters orders by customer ID
type ByCustomerIDSpecification struct {
	CustomerID shared.ID
}

// IsSatisfiedBy returns true if the order belongs to the specified customer
func (spec ByCustomerIDSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.CustomerID() == spec.CustomerID
}

// ByStatusSpecification filters orders by status
type ByStatusSpecification struct {
	Status Status
}

// IsSatisfiedBy returns true if the order has the specified status
func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.Status() == spec.Status
}

// ByDateRangeSpecification filters orders by creation date range
// Both Start and End are optional - if zero, they are ignored
type ByDateRangeSpecification struct {
	Start time.Time
	End   time.Time
}

// IsSatisfiedBy returns true if the order was created within the date range
func (spec ByDateRangeSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	createdAt := entity.CreatedAt()

	if !spec.Start.IsZero() && createdAt.Before(spec.Start) {
		return false
	}
	if !spec.End.IsZero() && createdAt.After(spec.End) {
		return false
	}
	return true
}

// NewByCustomerIDSpecification creates a specification to filter by customer ID
func NewByCustomerIDSpecification(customerID shared.ID) shared.Specification[*Order] {
	return ByCustomerIDSpecification{CustomerID: customerID}
}

// NewByStatusSpecification creates a specification to filter by status
func NewByStatusSpecification(status Status) shared.Specification[*Order] {
	return ByStatusSpecification{Status: status}
}

// NewByDateRangeSpecification creates a specification to filter by creation date
func NewByDateRangeSpecification(start, end time.Time) shared.Specification[*Order] {
	return ByDateRangeSpecification{Start: start, End: end}
}
