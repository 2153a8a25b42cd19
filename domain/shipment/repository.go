package shipment

import (
	"context"

	"ddd-course/domain/shared"
)

// Repository Shipment repository interface
type Repository interface {
	// Save creates or overwrites the shipment.
	// The stored version must equal shipment.PersistedVersion(), otherwise
	// shared.ErrConcurrencyConflict is returned and nothing is written.
	Save(ctx context.Context, shipment *Shipment) error

	// FindByID returns shared.ErrNotFound when the shipment does not exist
	FindByID(ctx context.Context, id shared.ID) (*Shipment, error)

	// FindBySpecification returns the shipments satisfying spec
	FindBySpecification(ctx context.Context, spec shared.Specification[*Shipment]) ([]*Shipment, error)
}
