package shipment

import (
	"testing"
	"time"

	"ddd-course/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWeight(t *testing.T, kg float64) Weight {
	t.Helper()
	w, err := NewWeight(kg)
	require.NoError(t, err)
	return w
}

func mustVolume(t *testing.T, m3 float64) Volume {
	t.Helper()
	v, err := NewVolume(m3)
	require.NoError(t, err)
	return v
}

func newShipment(t *testing.T, maxKg, maxM3 float64) *Shipment {
	t.Helper()
	addr, err := NewAddress("Moscow", "Tverskaya 1", "125009")
	require.NoError(t, err)
	s, err := Create(addr, mustWeight(t, maxKg), mustVolume(t, maxM3))
	require.NoError(t, err)
	return s
}

func TestCreate(t *testing.T) {
	s := newShipment(t, 100, 1.5)

	assert.False(t, s.ID().IsZero())
	assert.Equal(t, 1, s.Version())
	assert.Equal(t, StatusPreparing, s.Status())
	assert.Empty(t, s.Parcels())
	assert.Equal(t, int64(0), s.CurrentWeight().Grams())

	events := s.PullEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(ShipmentCreated)
	require.True(t, ok)
	assert.Equal(t, s.ID(), created.AggregateID())
	assert.Equal(t, 100.0, created.MaxWeight.Kilograms())
}

func TestAddParcelCapacity(t *testing.T) {
	s := newShipment(t, 100, 1.5)
	s.PullEvents()

	orderA := shared.NewID()
	require.NoError(t, s.AddParcel(orderA, mustWeight(t, 25), mustVolume(t, 0.5)))
	assert.Equal(t, 2, s.Version())

	events := s.PullEvents()
	require.Len(t, events, 1)
	added, ok := events[0].(ParcelAdded)
	require.True(t, ok)
	assert.Equal(t, orderA, added.OrderID)

	err := s.AddParcel(shared.NewID(), mustWeight(t, 90), mustVolume(t, 0.1))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrBusinessRule)
	assert.Contains(t, err.Error(), "weight")
	assert.Equal(t, 2, s.Version())
	assert.Empty(t, s.PullEvents())
	assert.Len(t, s.Parcels(), 1)
}

func TestAddParcelExactCapacity(t *testing.T) {
	s := newShipment(t, 0.3, 1)

	require.NoError(t, s.AddParcel(shared.NewID(), mustWeight(t, 0.1), mustVolume(t, 0.1)))
	require.NoError(t, s.AddParcel(shared.NewID(), mustWeight(t, 0.2), mustVolume(t, 0.1)))
	assert.Equal(t, 0.3, s.CurrentWeight().Kilograms())
}

func TestAddParcelVolumeExceeded(t *testing.T) {
	s := newShipment(t, 100, 1.5)

	err := s.AddParcel(shared.NewID(), mustWeight(t, 1), mustVolume(t, 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "volume")
	assert.Equal(t, 1, s.Version())
}

func TestAddParcelWeightOverflow(t *testing.T) {
	addr, err := NewAddress("Moscow", "Tverskaya 1", "125009")
	require.NoError(t, err)
	maxWeight, err := WeightFromGrams(9_000_000_000_000_000_000)
	require.NoError(t, err)
	s, err := Create(addr, maxWeight, mustVolume(t, 10))
	require.NoError(t, err)

	heavy, err := WeightFromGrams(8_000_000_000_000_000_000)
	require.NoError(t, err)
	require.NoError(t, s.AddParcel(shared.NewID(), heavy, mustVolume(t, 0.1)))

	err = s.AddParcel(shared.NewID(), heavy, mustVolume(t, 0.1))
	assert.ErrorIs(t, err, shared.ErrBusinessRule)
	assert.Len(t, s.Parcels(), 1)
	assert.Equal(t, heavy, s.CurrentWeight())
	assert.Equal(t, 2, s.Version())
}

func TestAddParcelRejectsZeroMeasures(t *testing.T) {
	s := newShipment(t, 100, 1.5)
	s.PullEvents()

	err := s.AddParcel(shared.NewID(), Weight{}, mustVolume(t, 0.1))
	assert.ErrorIs(t, err, shared.ErrInvalidValue)
	err = s.AddParcel(shared.NewID(), mustWeight(t, 1), Volume{})
	assert.ErrorIs(t, err, shared.ErrInvalidValue)

	assert.Empty(t, s.Parcels())
	assert.Equal(t, 1, s.Version())
	assert.Empty(t, s.PullEvents())
}

func TestAddParcelDuplicateOrder(t *testing.T) {
	s := newShipment(t, 100, 1.5)
	order := shared.NewID()

	require.NoError(t, s.AddParcel(order, mustWeight(t, 1), mustVolume(t, 0.1)))
	before := s.Snapshot()

	err := s.AddParcel(order, mustWeight(t, 1), mustVolume(t, 0.1))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrBusinessRule)
	assert.Equal(t, before, s.Snapshot())
}

func TestLifecycle(t *testing.T) {
	s := newShipment(t, 100, 1.5)
	s.PullEvents()

	err := s.Dispatch(time.Now())
	require.Error(t, err, "empty shipment cannot be dispatched")

	require.NoError(t, s.AddParcel(shared.NewID(), mustWeight(t, 10), mustVolume(t, 0.2)))
	require.NoError(t, s.Dispatch(time.Now()))
	assert.Equal(t, StatusDispatched, s.Status())

	err = s.AddParcel(shared.NewID(), mustWeight(t, 1), mustVolume(t, 0.1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISPATCHED")

	require.NoError(t, s.StartTransit())
	require.NoError(t, s.MarkDelivered(time.Now()))
	assert.Equal(t, StatusDelivered, s.Status())
	assert.Equal(t, 5, s.Version())

	names := make([]string, 0)
	for _, e := range s.PullEvents() {
		names = append(names, e.EventName())
	}
	assert.Equal(t, []string{EventParcelAdded, EventShipmentDispatched, EventShipmentInTransit, EventShipmentDelivered}, names)

	assert.Error(t, s.Cancel("too late"))
	assert.Equal(t, 5, s.Version())
}

func TestCancel(t *testing.T) {
	s := newShipment(t, 100, 1.5)

	assert.ErrorIs(t, s.Cancel("  "), shared.ErrInvalidValue)
	require.NoError(t, s.Cancel("customer request"))
	assert.Equal(t, StatusCancelled, s.Status())
	assert.Equal(t, "customer request", s.CancelReason())
	assert.Error(t, s.StartTransit())
}

func TestZeroValueShipmentIsNotUsable(t *testing.T) {
	var s Shipment

	assert.True(t, s.ID().IsZero())
	err := s.AddParcel(shared.NewID(), mustWeight(t, 1), mustVolume(t, 0.1))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvariant)
	assert.False(t, shared.IsBusinessRule(err))

	assert.ErrorIs(t, s.Dispatch(time.Now()), shared.ErrInvariant)
	assert.ErrorIs(t, s.Cancel("x"), shared.ErrInvariant)
	assert.Equal(t, 0, s.Version())
}

func TestParcelsDefensiveCopy(t *testing.T) {
	s := newShipment(t, 100, 1.5)
	require.NoError(t, s.AddParcel(shared.NewID(), mustWeight(t, 1), mustVolume(t, 0.1)))

	parcels := s.Parcels()
	parcels[0] = Parcel{}
	_ = append(parcels, Parcel{})

	fresh := s.Parcels()
	require.Len(t, fresh, 1)
	assert.False(t, fresh[0].OrderID().IsZero())
}

func TestIdentityEquality(t *testing.T) {
	s := newShipment(t, 100, 1.5)

	loaded, err := Rebuild(s.Snapshot())
	require.NoError(t, err)
	require.NoError(t, loaded.AddParcel(shared.NewID(), mustWeight(t, 1), mustVolume(t, 0.1)))

	assert.True(t, s.Equals(loaded), "same id with divergent state is the same shipment")
	assert.False(t, s.Equals(newShipment(t, 100, 1.5)))
	assert.False(t, s.Equals("shipment"))

	var a, b Shipment
	assert.False(t, a.Equals(&b))
	assert.True(t, a.Equals(&a))
}

func TestRebuildRecordsNoEvents(t *testing.T) {
	s := newShipment(t, 100, 1.5)
	require.NoError(t, s.AddParcel(shared.NewID(), mustWeight(t, 3), mustVolume(t, 0.3)))

	loaded, err := Rebuild(s.Snapshot())
	require.NoError(t, err)
	assert.Empty(t, loaded.PullEvents())
	assert.Equal(t, 2, loaded.Version())
	assert.Equal(t, 2, loaded.PersistedVersion())
	assert.Equal(t, s.CurrentWeight(), loaded.CurrentWeight())

	_, err = Rebuild(ReconstructionDTO{})
	assert.Error(t, err)
}
