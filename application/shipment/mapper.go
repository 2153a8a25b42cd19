package shipment

import (
	"time"

	"ddd-course/domain/shipment"
)

func toShipmentResponse(s *shipment.Shipment) *ShipmentResponse {
	parcels := s.Parcels()
	items := make([]ParcelResponse, len(parcels))
	for i, p := range parcels {
		items[i] = ParcelResponse{
			OrderID:  p.OrderID().String(),
			WeightKg: p.Weight().Kilograms(),
			VolumeM3: p.Volume().CubicMetres(),
		}
	}

	dest := s.Destination()
	return &ShipmentResponse{
		ID:     s.ID().String(),
		Status: string(s.Status()),
		Destination: AddressResponse{
			City:    dest.City(),
			Street:  dest.Street(),
			ZipCode: dest.ZipCode(),
		},
		MaxWeightKg:   s.MaxWeight().Kilograms(),
		MaxVolumeM3:   s.MaxVolume().CubicMetres(),
		CurrentWeight: s.CurrentWeight().Kilograms(),
		CurrentVolume: s.CurrentVolume().CubicMetres(),
		Parcels:       items,
		DispatchedAt:  optionalTime(s.DispatchedAt()),
		DeliveredAt:   optionalTime(s.DeliveredAt()),
		CancelReason:  s.CancelReason(),
		Version:       s.Version(),
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
