package po

import (
	"time"

	"ddd-course/domain/shared"
	"ddd-course/domain/shipment"
)

// ShipmentPO Shipment persistence object
// Weights and volumes are stored in grams and cubic centimetres
type ShipmentPO struct {
	ID             string     `gorm:"primaryKey;size:36"`
	City           string     `gorm:"size:100;not null"`
	Street         string     `gorm:"size:255;not null"`
	ZipCode        string     `gorm:"size:20;not null"`
	MaxWeightGrams int64      `gorm:"not null"`
	MaxVolumeCm3   int64      `gorm:"not null"`
	Status         string     `gorm:"size:20;index;not null"`
	DispatchedAt   *time.Time
	DeliveredAt    *time.Time
	CancelReason   string     `gorm:"size:255"`
	Version        int        `gorm:"not null"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (ShipmentPO) TableName() string {
	return "shipments"
}

// ShipmentParcelPO parcel row; no GORM association with ShipmentPO
type ShipmentParcelPO struct {
	ShipmentID  string `gorm:"primaryKey;size:36"`
	OrderID     string `gorm:"primaryKey;size:36;index"`
	WeightGrams int64  `gorm:"not null"`
	VolumeCm3   int64  `gorm:"not null"`
	Position    int    `gorm:"not null"`
}

// TableName Specify table name
func (ShipmentParcelPO) TableName() string {
	return "shipment_parcels"
}

// FromShipmentDomain Convert domain model to persistence objects
func FromShipmentDomain(s *shipment.Shipment) (*ShipmentPO, []ShipmentParcelPO) {
	dto := s.Snapshot()
	shipmentPO := &ShipmentPO{
		ID:             dto.ID.String(),
		City:           dto.Destination.City(),
		Street:         dto.Destination.Street(),
		ZipCode:        dto.Destination.ZipCode(),
		MaxWeightGrams: dto.MaxWeight.Grams(),
		MaxVolumeCm3:   dto.MaxVolume.CubicCentimetres(),
		Status:         string(dto.Status),
		DispatchedAt:   timePtr(dto.DispatchedAt),
		DeliveredAt:    timePtr(dto.DeliveredAt),
		CancelReason:   dto.CancelReason,
		Version:        dto.Version,
	}

	parcels := make([]ShipmentParcelPO, len(dto.Parcels))
	for i, p := range dto.Parcels {
		parcels[i] = ShipmentParcelPO{
			ShipmentID:  shipmentPO.ID,
			OrderID:     p.OrderID.String(),
			WeightGrams: p.Weight.Grams(),
			VolumeCm3:   p.Volume.CubicCentimetres(),
			Position:    i,
		}
	}
	return shipmentPO, parcels
}

// ToDomain Convert persistence objects to domain model.
// parcels must be ordered by Position.
func (po *ShipmentPO) ToDomain(parcels []ShipmentParcelPO) (*shipment.Shipment, error) {
	id, err := shared.ParseID(po.ID)
	if err != nil {
		return nil, err
	}
	destination, err := shipment.NewAddress(po.City, po.Street, po.ZipCode)
	if err != nil {
		return nil, err
	}
	maxWeight, err := shipment.WeightFromGrams(po.MaxWeightGrams)
	if err != nil {
		return nil, err
	}
	maxVolume, err := shipment.VolumeFromCubicCentimetres(po.MaxVolumeCm3)
	if err != nil {
		return nil, err
	}

	dtos := make([]shipment.ParcelDTO, len(parcels))
	for i, p := range parcels {
		orderID, err := shared.ParseID(p.OrderID)
		if err != nil {
			return nil, err
		}
		weight, err := shipment.WeightFromGrams(p.WeightGrams)
		if err != nil {
			return nil, err
		}
		volume, err := shipment.VolumeFromCubicCentimetres(p.VolumeCm3)
		if err != nil {
			return nil, err
		}
		dtos[i] = shipment.ParcelDTO{OrderID: orderID, Weight: weight, Volume: volume}
	}

	return shipment.Rebuild(shipment.ReconstructionDTO{
		ID:           id,
		Destination:  destination,
		MaxWeight:    maxWeight,
		MaxVolume:    maxVolume,
		Status:       shipment.Status(po.Status),
		Parcels:      dtos,
		DispatchedAt: timeValue(po.DispatchedAt),
		DeliveredAt:  timeValue(po.DeliveredAt),
		CancelReason: po.CancelReason,
		Version:      po.Version,
	})
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
