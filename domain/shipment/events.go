package shipment

import (
	"time"

	"ddd-course/domain/shared"
)

const (
	EventShipmentCreated    = "shipment.created"
	EventParcelAdded        = "shipment.parcel_added"
	EventShipmentDispatched = "shipment.dispatched"
	EventShipmentInTransit  = "shipment.in_transit"
	EventShipmentDelivered  = "shipment.delivered"
	EventShipmentCancelled  = "shipment.cancelled"
)

type ShipmentCreated struct {
	shared.EventBase
	Destination Address `json:"destination"`
	MaxWeight   Weight  `json:"max_weight"`
	MaxVolume   Volume  `json:"max_volume"`
}

func (ShipmentCreated) EventName() string { return EventShipmentCreated }

type ParcelAdded struct {
	shared.EventBase
	OrderID shared.ID `json:"order_id"`
	Weight  Weight    `json:"weight"`
	Volume  Volume    `json:"volume"`
}

func (ParcelAdded) EventName() string { return EventParcelAdded }

type ShipmentDispatched struct {
	shared.EventBase
	DispatchedAt time.Time `json:"dispatched_at"`
	ParcelCount  int       `json:"parcel_count"`
}

func (ShipmentDispatched) EventName() string { return EventShipmentDispatched }

type ShipmentInTransit struct {
	shared.EventBase
}

func (ShipmentInTransit) EventName() string { return EventShipmentInTransit }

type ShipmentDelivered struct {
	shared.EventBase
	DeliveredAt time.Time `json:"delivered_at"`
}

func (ShipmentDelivered) EventName() string { return EventShipmentDelivered }

type ShipmentCancelled struct {
	shared.EventBase
	Reason string `json:"reason"`
}

func (ShipmentCancelled) EventName() string { return EventShipmentCancelled }
