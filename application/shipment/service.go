/*
Package shipment Application Layer - shipment logistics use cases

Each method is one transaction over one Shipment aggregate. Events are drained by the
unit of work after it succeeds, never published from here.
*/
package shipment

import (
	"context"
	"fmt"
	"time"

	"ddd-course/domain/shared"
	"ddd-course/domain/shipment"
)

// ApplicationService Shipment application service
type ApplicationService struct {
	shipmentRepo shipment.Repository
	uowFactory   shared.UnitOfWorkFactory
	now          func() time.Time
}

// NewApplicationService Create shipment application service
func NewApplicationService(shipmentRepo shipment.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{
		shipmentRepo: shipmentRepo,
		uowFactory:   uowFactory,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateShipment Create an empty shipment in PREPARING
func (s *ApplicationService) CreateShipment(ctx context.Context, req CreateShipmentRequest) (*ShipmentResponse, error) {
	dest, err := shipment.NewAddress(req.City, req.Street, req.ZipCode)
	if err != nil {
		return nil, err
	}
	maxWeight, err := shipment.NewWeight(req.MaxWeightKg)
	if err != nil {
		return nil, err
	}
	maxVolume, err := shipment.NewVolume(req.MaxVolumeM3)
	if err != nil {
		return nil, err
	}

	var sh *shipment.Shipment
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		sh, err = shipment.Create(dest, maxWeight, maxVolume)
		if err != nil {
			return err
		}
		if err := s.shipmentRepo.Save(ctx, sh); err != nil {
			return err
		}
		uow.RegisterNew(sh)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	return toShipmentResponse(sh), nil
}

// AddParcel Add the parcel of one order
func (s *ApplicationService) AddParcel(ctx context.Context, shipmentID string, req AddParcelRequest) (*ShipmentResponse, error) {
	orderID, err := shared.ParseID(req.OrderID)
	if err != nil {
		return nil, err
	}
	weight, err := shipment.NewWeight(req.WeightKg)
	if err != nil {
		return nil, err
	}
	volume, err := shipment.NewVolume(req.VolumeM3)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, "add parcel", shipmentID, func(sh *shipment.Shipment) error {
		return sh.AddParcel(orderID, weight, volume)
	})
}

// Dispatch Hand the shipment to the carrier
func (s *ApplicationService) Dispatch(ctx context.Context, shipmentID string) (*ShipmentResponse, error) {
	return s.mutate(ctx, "dispatch shipment", shipmentID, func(sh *shipment.Shipment) error {
		return sh.Dispatch(s.now())
	})
}

// StartTransit Mark the shipment as on its way
func (s *ApplicationService) StartTransit(ctx context.Context, shipmentID string) (*ShipmentResponse, error) {
	return s.mutate(ctx, "start transit", shipmentID, func(sh *shipment.Shipment) error {
		return sh.StartTransit()
	})
}

// MarkDelivered Record the delivery
func (s *ApplicationService) MarkDelivered(ctx context.Context, shipmentID string) (*ShipmentResponse, error) {
	return s.mutate(ctx, "deliver shipment", shipmentID, func(sh *shipment.Shipment) error {
		return sh.MarkDelivered(s.now())
	})
}

// Cancel Cancel the shipment with a reason
func (s *ApplicationService) Cancel(ctx context.Context, shipmentID string, req CancelShipmentRequest) (*ShipmentResponse, error) {
	return s.mutate(ctx, "cancel shipment", shipmentID, func(sh *shipment.Shipment) error {
		return sh.Cancel(req.Reason)
	})
}

// GetShipment Get shipment information
func (s *ApplicationService) GetShipment(ctx context.Context, shipmentID string) (*ShipmentResponse, error) {
	id, err := shared.ParseID(shipmentID)
	if err != nil {
		return nil, err
	}
	sh, err := s.shipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toShipmentResponse(sh), nil
}

// ListByStatus shipments in the given status
func (s *ApplicationService) ListByStatus(ctx context.Context, status string) ([]*ShipmentResponse, error) {
	st := shipment.Status(status)
	if !st.IsValid() {
		return nil, shared.NewValidationError("shipment", "status", fmt.Sprintf("unknown status %q", status))
	}
	shipments, err := s.shipmentRepo.FindBySpecification(ctx, shipment.NewByStatusSpecification(st))
	if err != nil {
		return nil, err
	}
	responses := make([]*ShipmentResponse, len(shipments))
	for i, sh := range shipments {
		responses[i] = toShipmentResponse(sh)
	}
	return responses, nil
}

// mutate load-mutate-save of one shipment inside a unit of work
func (s *ApplicationService) mutate(ctx context.Context, op, shipmentID string, fn func(*shipment.Shipment) error) (*ShipmentResponse, error) {
	id, err := shared.ParseID(shipmentID)
	if err != nil {
		return nil, err
	}

	var sh *shipment.Shipment
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		sh, err = s.shipmentRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(sh); err != nil {
			return err
		}
		if err := s.shipmentRepo.Save(ctx, sh); err != nil {
			return err
		}
		uow.RegisterDirty(sh)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toShipmentResponse(sh), nil
}
