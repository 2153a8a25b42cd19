/*
Package shipment Shipment aggregate

A shipment groups parcels of several orders into one delivery. It references orders by
id only; an order is never part of the shipment aggregate.

Invariants, checked at insertion:
1. parcels can only be added while PREPARING
2. total weight never exceeds the maximum weight
3. total volume never exceeds the maximum volume
4. at most one parcel per order
*/
package shipment

import (
	"strings"
	"time"

	"ddd-course/domain/shared"
)

const entityName = "shipment"

// Status shipment status enum
type Status string

const (
	StatusPreparing  Status = "PREPARING"
	StatusDispatched Status = "DISPATCHED"
	StatusInTransit  Status = "IN_TRANSIT"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid reports a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPreparing, StatusDispatched, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Parcel local entity of the shipment, identified by the order it carries
type Parcel struct {
	orderID shared.ID
	weight  Weight
	volume  Volume
}

func (p Parcel) OrderID() shared.ID { return p.orderID }
func (p Parcel) Weight() Weight     { return p.weight }
func (p Parcel) Volume() Volume     { return p.volume }

// Shipment Shipment aggregate root
// The zero value is not usable: every mutator fails with shared.ErrInvariant until
// the aggregate is built by Create or Rebuild.
type Shipment struct {
	root shared.Root

	destination  Address
	maxWeight    Weight
	maxVolume    Volume
	status       Status
	parcels      []Parcel
	dispatchedAt time.Time
	deliveredAt  time.Time
	cancelReason string
}

// ============================================================================
// Factory
// ============================================================================

// Create creates a shipment in PREPARING status, version 1, with a ShipmentCreated event
func Create(destination Address, maxWeight Weight, maxVolume Volume) (*Shipment, error) {
	if destination == (Address{}) {
		return nil, shared.NewValidationError(entityName, "destination", "destination is required")
	}
	if maxWeight.grams <= 0 {
		return nil, shared.NewValidationError(entityName, "max_weight", "max weight is required")
	}
	if maxVolume.cm3 <= 0 {
		return nil, shared.NewValidationError(entityName, "max_volume", "max volume is required")
	}

	id := shared.NewID()
	s := &Shipment{
		destination: destination,
		maxWeight:   maxWeight,
		maxVolume:   maxVolume,
		status:      StatusPreparing,
	}
	s.root.Initialize(id, ShipmentCreated{
		EventBase:   shared.NewEventBase(id),
		Destination: destination,
		MaxWeight:   maxWeight,
		MaxVolume:   maxVolume,
	})
	return s, nil
}

// ============================================================================
// Behaviour
// ============================================================================

// AddParcel adds the parcel of one order
func (s *Shipment) AddParcel(orderID shared.ID, weight Weight, volume Volume) error {
	if err := s.root.Guard(entityName, "add_parcel"); err != nil {
		return err
	}
	if s.status != StatusPreparing {
		return shared.NewInvalidStatusError(entityName, "add_parcel", string(s.status), string(StatusPreparing))
	}
	if orderID.IsZero() {
		return shared.NewValidationError(entityName, "order_id", "order id is required")
	}
	if weight.grams <= 0 {
		return shared.NewValidationError(entityName, "weight", "parcel weight must be positive")
	}
	if volume.cm3 <= 0 {
		return shared.NewValidationError(entityName, "volume", "parcel volume must be positive")
	}
	// an overflowing sum is above any maximum
	if total, err := s.CurrentWeight().Add(weight); err != nil || total.Exceeds(s.maxWeight) {
		return shared.NewBusinessRuleError(entityName, "add_parcel", "maximum shipment weight exceeded")
	}
	if total, err := s.CurrentVolume().Add(volume); err != nil || total.Exceeds(s.maxVolume) {
		return shared.NewBusinessRuleError(entityName, "add_parcel", "maximum shipment volume exceeded")
	}
	if s.HasParcelFor(orderID) {
		return shared.NewBusinessRuleError(entityName, "add_parcel",
			"parcel for order "+orderID.String()+" is already in this shipment")
	}

	s.parcels = append(s.parcels, Parcel{orderID: orderID, weight: weight, volume: volume})
	s.root.Commit(ParcelAdded{
		EventBase: shared.NewEventBase(s.root.ID()),
		OrderID:   orderID,
		Weight:    weight,
		Volume:    volume,
	})
	return nil
}

// Dispatch hands the shipment to the carrier
func (s *Shipment) Dispatch(at time.Time) error {
	if err := s.root.Guard(entityName, "dispatch"); err != nil {
		return err
	}
	if s.status != StatusPreparing {
		return shared.NewInvalidStatusError(entityName, "dispatch", string(s.status), string(StatusPreparing))
	}
	if len(s.parcels) == 0 {
		return shared.NewBusinessRuleError(entityName, "dispatch", "cannot dispatch an empty shipment")
	}

	at = at.UTC()
	s.status = StatusDispatched
	s.dispatchedAt = at
	s.root.Commit(ShipmentDispatched{
		EventBase:    shared.NewEventBase(s.root.ID()),
		DispatchedAt: at,
		ParcelCount:  len(s.parcels),
	})
	return nil
}

// StartTransit marks a dispatched shipment as travelling
func (s *Shipment) StartTransit() error {
	if err := s.root.Guard(entityName, "start_transit"); err != nil {
		return err
	}
	if s.status != StatusDispatched {
		return shared.NewInvalidStatusError(entityName, "start_transit", string(s.status), string(StatusDispatched))
	}

	s.status = StatusInTransit
	s.root.Commit(ShipmentInTransit{EventBase: shared.NewEventBase(s.root.ID())})
	return nil
}

// MarkDelivered completes the shipment
func (s *Shipment) MarkDelivered(at time.Time) error {
	if err := s.root.Guard(entityName, "mark_delivered"); err != nil {
		return err
	}
	if s.status != StatusDispatched && s.status != StatusInTransit {
		return shared.NewInvalidStatusError(entityName, "mark_delivered", string(s.status),
			string(StatusDispatched), string(StatusInTransit))
	}

	at = at.UTC()
	s.status = StatusDelivered
	s.deliveredAt = at
	s.root.Commit(ShipmentDelivered{
		EventBase:   shared.NewEventBase(s.root.ID()),
		DeliveredAt: at,
	})
	return nil
}

// Cancel cancels a shipment that has not left the carrier yet
func (s *Shipment) Cancel(reason string) error {
	if err := s.root.Guard(entityName, "cancel"); err != nil {
		return err
	}
	if s.status != StatusPreparing && s.status != StatusDispatched {
		return shared.NewInvalidStatusError(entityName, "cancel", string(s.status),
			string(StatusPreparing), string(StatusDispatched))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError(entityName, "reason", "cancellation reason is required")
	}

	s.status = StatusCancelled
	s.cancelReason = reason
	s.root.Commit(ShipmentCancelled{
		EventBase: shared.NewEventBase(s.root.ID()),
		Reason:    reason,
	})
	return nil
}

// ============================================================================
// Queries
// ============================================================================

func (s *Shipment) ID() shared.ID           { return s.root.ID() }
func (s *Shipment) Version() int            { return s.root.Version() }
func (s *Shipment) Status() Status          { return s.status }
func (s *Shipment) Destination() Address    { return s.destination }
func (s *Shipment) MaxWeight() Weight       { return s.maxWeight }
func (s *Shipment) MaxVolume() Volume       { return s.maxVolume }
func (s *Shipment) DispatchedAt() time.Time { return s.dispatchedAt }
func (s *Shipment) DeliveredAt() time.Time  { return s.deliveredAt }
func (s *Shipment) CancelReason() string    { return s.cancelReason }

// Parcels returns a copy of the parcels in insertion order
func (s *Shipment) Parcels() []Parcel {
	parcels := make([]Parcel, len(s.parcels))
	copy(parcels, s.parcels)
	return parcels
}

// HasParcelFor reports whether the order already has a parcel in the shipment
func (s *Shipment) HasParcelFor(orderID shared.ID) bool {
	for _, p := range s.parcels {
		if p.orderID == orderID {
			return true
		}
	}
	return false
}

// CurrentWeight exact sum of parcel weights, zero for an empty shipment.
// The sum never exceeds the maximum weight, so it cannot overflow.
func (s *Shipment) CurrentWeight() Weight {
	var total Weight
	for _, p := range s.parcels {
		total.grams += p.weight.grams
	}
	return total
}

// CurrentVolume exact sum of parcel volumes, zero for an empty shipment
func (s *Shipment) CurrentVolume() Volume {
	var total Volume
	for _, p := range s.parcels {
		total.cm3 += p.volume.cm3
	}
	return total
}

// PullEvents drains the recorded events
func (s *Shipment) PullEvents() []shared.DomainEvent { return s.root.Pull() }

// Equals identity equality: same id means same shipment, regardless of other state
func (s *Shipment) Equals(other any) bool {
	o, ok := other.(*Shipment)
	if !ok || s == nil || o == nil {
		return false
	}
	if s.root.ID().IsZero() || o.root.ID().IsZero() {
		return s == o
	}
	return s.root.ID() == o.root.ID()
}

// PersistedVersion version known to the store
func (s *Shipment) PersistedVersion() int { return s.root.PersistedVersion() }

// MarkPersisted called by repositories after a successful save
func (s *Shipment) MarkPersisted() { s.root.MarkPersisted() }

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO shipment state as stored by repositories
type ReconstructionDTO struct {
	ID           shared.ID
	Destination  Address
	MaxWeight    Weight
	MaxVolume    Volume
	Status       Status
	Parcels      []ParcelDTO
	DispatchedAt time.Time
	DeliveredAt  time.Time
	CancelReason string
	Version      int
}

// ParcelDTO parcel state as stored by repositories
type ParcelDTO struct {
	OrderID shared.ID
	Weight  Weight
	Volume  Volume
}

// Rebuild reconstructs a stored shipment without recording events
func Rebuild(dto ReconstructionDTO) (*Shipment, error) {
	if dto.ID.IsZero() {
		return nil, shared.NewValidationError(entityName, "id", "id is required")
	}
	if !dto.Status.IsValid() {
		return nil, shared.NewValidationError(entityName, "status", "unknown status "+string(dto.Status))
	}
	s := &Shipment{
		destination:  dto.Destination,
		maxWeight:    dto.MaxWeight,
		maxVolume:    dto.MaxVolume,
		status:       dto.Status,
		dispatchedAt: dto.DispatchedAt,
		deliveredAt:  dto.DeliveredAt,
		cancelReason: dto.CancelReason,
	}
	s.parcels = make([]Parcel, 0, len(dto.Parcels))
	for _, p := range dto.Parcels {
		s.parcels = append(s.parcels, Parcel{
			orderID: p.OrderID,
			weight:  p.Weight,
			volume:  p.Volume,
		})
	}
	s.root.Restore(dto.ID, dto.Version)
	return s, nil
}

// Snapshot returns the persisted form of the shipment
func (s *Shipment) Snapshot() ReconstructionDTO {
	parcels := make([]ParcelDTO, len(s.parcels))
	for i, p := range s.parcels {
		parcels[i] = ParcelDTO{OrderID: p.orderID, Weight: p.weight, Volume: p.volume}
	}
	return ReconstructionDTO{
		ID:           s.root.ID(),
		Destination:  s.destination,
		MaxWeight:    s.maxWeight,
		MaxVolume:    s.maxVolume,
		Status:       s.status,
		Parcels:      parcels,
		DispatchedAt: s.dispatchedAt,
		DeliveredAt:  s.deliveredAt,
		CancelReason: s.cancelReason,
		Version:      s.root.Version(),
	}
}

var _ shared.Versioned = (*Shipment)(nil)
