package shipment

import (
	"context"
	"testing"
	"time"

	"ddd-course/domain/shared"
	"ddd-course/domain/shipment"
	"ddd-course/infrastructure/eventbus"
	"ddd-course/infrastructure/persistence/memory"
	"ddd-course/infrastructure/persistence/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*ApplicationService, *eventbus.Dispatcher) {
	t.Helper()
	dispatcher := eventbus.NewDispatcher(nil)
	svc := NewApplicationService(memory.NewShipmentRepository(), memory.NewUnitOfWorkFactory(dispatcher, retry.Disabled))
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, dispatcher
}

func createShipment(t *testing.T, svc *ApplicationService) *ShipmentResponse {
	t.Helper()
	resp, err := svc.CreateShipment(context.Background(), CreateShipmentRequest{
		City: "Kazan", Street: "Baumana 1", ZipCode: "420111",
		MaxWeightKg: 0.3, MaxVolumeM3: 1,
	})
	require.NoError(t, err)
	return resp
}

func TestShipmentLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher := newService(t)
	var names []string
	require.NoError(t, eventbus.SubscribeAll(dispatcher, eventbus.NewFuncHandler("recorder",
		func(_ context.Context, e shared.DomainEvent) error {
			names = append(names, e.EventName())
			return nil
		}),
		shipment.EventShipmentCreated, shipment.EventParcelAdded, shipment.EventShipmentDispatched,
		shipment.EventShipmentInTransit, shipment.EventShipmentDelivered,
	))

	created := createShipment(t, svc)
	assert.Equal(t, string(shipment.StatusPreparing), created.Status)

	_, err := svc.AddParcel(ctx, created.ID, AddParcelRequest{OrderID: shared.NewID().String(), WeightKg: 0.1, VolumeM3: 0.5})
	require.NoError(t, err)
	resp, err := svc.AddParcel(ctx, created.ID, AddParcelRequest{OrderID: shared.NewID().String(), WeightKg: 0.2, VolumeM3: 0.5})
	require.NoError(t, err, "0.1 + 0.2 kg fits exactly into 0.3 kg")
	assert.InDelta(t, 0.3, resp.CurrentWeight, 1e-9)

	resp, err = svc.Dispatch(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.DispatchedAt)
	assert.Equal(t, 2024, resp.DispatchedAt.Year())

	_, err = svc.StartTransit(ctx, created.ID)
	require.NoError(t, err)
	resp, err = svc.MarkDelivered(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(shipment.StatusDelivered), resp.Status)
	assert.Equal(t, 6, resp.Version)

	assert.Equal(t, []string{
		shipment.EventShipmentCreated,
		shipment.EventParcelAdded,
		shipment.EventParcelAdded,
		shipment.EventShipmentDispatched,
		shipment.EventShipmentInTransit,
		shipment.EventShipmentDelivered,
	}, names)
}

func TestAddParcelOverCapacityLeavesShipmentUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	created := createShipment(t, svc)

	_, err := svc.AddParcel(ctx, created.ID, AddParcelRequest{OrderID: shared.NewID().String(), WeightKg: 0.4, VolumeM3: 0.1})
	assert.ErrorIs(t, err, shared.ErrBusinessRule)

	got, err := svc.GetShipment(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Parcels)
	assert.Equal(t, 1, got.Version)
}

func TestDispatchEmptyShipmentFails(t *testing.T) {
	svc, _ := newService(t)
	created := createShipment(t, svc)
	_, err := svc.Dispatch(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrBusinessRule)
}

func TestCancelAndListByStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	kept := createShipment(t, svc)
	cancelled := createShipment(t, svc)

	resp, err := svc.Cancel(ctx, cancelled.ID, CancelShipmentRequest{Reason: "customer request"})
	require.NoError(t, err)
	assert.Equal(t, "customer request", resp.CancelReason)

	preparing, err := svc.ListByStatus(ctx, string(shipment.StatusPreparing))
	require.NoError(t, err)
	require.Len(t, preparing, 1)
	assert.Equal(t, kept.ID, preparing[0].ID)

	_, err = svc.ListByStatus(ctx, "LOST")
	assert.ErrorIs(t, err, shared.ErrInvalidValue)
}
