package lifecycle

import (
	"context"

	"driver-dispatch/constants"
	"driver-dispatch/models/driver"
	"driver-dispatch/models/location"
)

// RecordPreArrivalPing persists one GPS sample from the drive towards
// the pickup point and answers whether the caller should keep
// reporting. The gate reads the tracking record after the write: the
// pre-arrival stream stays open only between the preArrival and
// onLocation checkpoints. A failed write always answers stop.
func (e *Engine) RecordPreArrivalPing(ctx context.Context, orderID uint, drv driver.Driver, point GeoPoint) (bool, error) {
	reference, err := e.Orders.ResolveReference(ctx, orderID, drv.Code)
	if err != nil {
		return false, err
	}

	ping := location.PreArrivalPing{
		OrderID:   orderID,
		Reference: reference,
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
		CreatedOn: e.Now().Format(constants.CheckpointLayout),
	}
	if err := e.Pings.InsertPreArrival(ctx, ping); err != nil {
		return false, err
	}

	t, err := e.Tracking.Get(ctx, reference)
	if err != nil {
		return false, err
	}
	if t.IsEmpty() {
		return false, nil
	}
	return t.HasPreArrival() && !t.HasOnLocation(), nil
}

// RecordRidePing persists one GPS sample from the ride itself. The
// in-ride stream stays open only between the pickupStarted and finished
// checkpoints.
func (e *Engine) RecordRidePing(ctx context.Context, orderID uint, drv driver.Driver, point GeoPoint) (bool, error) {
	reference, err := e.Orders.ResolveReference(ctx, orderID, drv.Code)
	if err != nil {
		return false, err
	}

	ping := location.RidePing{
		OrderID:   orderID,
		Reference: reference,
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
		CreatedOn: e.Now().Format(constants.CheckpointLayout),
	}
	if err := e.Pings.InsertRide(ctx, ping); err != nil {
		return false, err
	}

	t, err := e.Tracking.Get(ctx, reference)
	if err != nil {
		return false, err
	}
	if t.IsEmpty() {
		return false, nil
	}
	return t.HasPickupStarted() && !t.HasFinished(), nil
}
