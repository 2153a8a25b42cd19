package order

import (
	"context"

	"ddd-course/domain/shared"
)

// Repository Order repository interface
type Repository interface {
	// Save Save or update order aggregate root
	// The stored version must equal order.PersistedVersion(); a stale write returns
	// shared.ErrConcurrencyConflict. Events are collected by the UoW, not here.
	Save(ctx context.Context, order *Order) error

	// FindByID Find order aggregate root by ID, shared.ErrNotFound when missing
	FindByID(ctx context.Context, id shared.ID) (*Order, error)

	// FindByCustomerID Find customer's orders (controlled query)
	FindByCustomerID(ctx context.Context, customerID shared.ID) ([]*Order, error)

	// FindBySpecification Find orders satisfying spec
	FindBySpecification(ctx context.Context, spec shared.Specification[*Order]) ([]*Order, error)
}
