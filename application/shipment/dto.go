package shipment

import "time"

// CreateShipmentRequest Create shipment request DTO
type CreateShipmentRequest struct {
	City        string  `json:"city" binding:"required"`
	Street      string  `json:"street" binding:"required"`
	ZipCode     string  `json:"zip_code" binding:"required"`
	MaxWeightKg float64 `json:"max_weight_kg" binding:"required,gt=0"`
	MaxVolumeM3 float64 `json:"max_volume_m3" binding:"required,gt=0"`
}

// AddParcelRequest Add parcel request DTO
type AddParcelRequest struct {
	OrderID  string  `json:"order_id" binding:"required"`
	WeightKg float64 `json:"weight_kg" binding:"required,gt=0"`
	VolumeM3 float64 `json:"volume_m3" binding:"required,gt=0"`
}

// CancelShipmentRequest Cancel shipment request DTO
type CancelShipmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ShipmentResponse Shipment response DTO
type ShipmentResponse struct {
	ID            string           `json:"id"`
	Status        string           `json:"status"`
	Destination   AddressResponse  `json:"destination"`
	MaxWeightKg   float64          `json:"max_weight_kg"`
	MaxVolumeM3   float64          `json:"max_volume_m3"`
	CurrentWeight float64          `json:"current_weight_kg"`
	CurrentVolume float64          `json:"current_volume_m3"`
	Parcels       []ParcelResponse `json:"parcels"`
	DispatchedAt  *time.Time       `json:"dispatched_at,omitempty"`
	DeliveredAt   *time.Time       `json:"delivered_at,omitempty"`
	CancelReason  string           `json:"cancel_reason,omitempty"`
	Version       int              `json:"version"`
}

// AddressResponse Address response DTO
type AddressResponse struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	ZipCode string `json:"zip_code"`
}

// ParcelResponse Parcel response DTO
type ParcelResponse struct {
	OrderID  string  `json:"order_id"`
	WeightKg float64 `json:"weight_kg"`
	VolumeM3 float64 `json:"volume_m3"`
}
