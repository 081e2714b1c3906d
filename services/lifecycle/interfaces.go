package lifecycle

import (
	"context"

	"driver-dispatch/models/location"
	"driver-dispatch/models/order"
	"driver-dispatch/models/tracking"
)

// GeoPoint is one GPS coordinate pair as reported by the driver app.
type GeoPoint struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// OrderStore resolves and mutates service orders. Every method that
// takes a driver code filters by ownership and excludes cancelled
// orders; resolution misses surface as ErrNotFound.
type OrderStore interface {
	// ResolveReference returns the tracking reference for an order owned
	// by the driver.
	ResolveReference(ctx context.Context, orderID uint, driverCode string) (string, error)

	// ResolveReferenceByID resolves without the ownership filter; used
	// by accept/decline, where the assignment itself is being made.
	ResolveReferenceByID(ctx context.Context, orderID uint) (string, error)

	// Get loads an order owned by the driver with its passenger.
	Get(ctx context.Context, orderID uint, driverCode string) (*order.ServiceOrder, error)

	// Accept stamps the acceptance and assigns the driver; Decline
	// clears both, returning the order to the pending pool.
	Accept(ctx context.Context, orderID uint, stamp, driverCode string) error
	Decline(ctx context.Context, orderID uint) error

	// Reconfirm flags the order as reconfirmed at the given instant.
	Reconfirm(ctx context.Context, orderID uint, at string) error

	// Reschedule moves the start time and replaces the driver-notes
	// audit text.
	Reschedule(ctx context.Context, orderID uint, hour, minute int, notes string) error

	// ListBetween returns the driver's non-cancelled orders whose
	// scheduled date falls in [from, to], passengers included, newest
	// start first.
	ListBetween(ctx context.Context, driverCode, from, to string) ([]order.ServiceOrder, error)

	// ListByDate returns the driver's non-cancelled orders for one date.
	ListByDate(ctx context.Context, driverCode, date string) ([]order.ServiceOrder, error)

	// NextPending returns the oldest order in [from, to] whose tracking
	// record is missing an operational time, or nil when none remains.
	NextPending(ctx context.Context, driverCode, from, to string) (*order.ServiceOrder, error)
}

// TrackingStore owns the single tracking record per reference. Upsert
// methods insert the row when absent and otherwise update only the
// columns the operation owns; no call ever clears a checkpoint another
// operation has written.
type TrackingStore interface {
	// Get returns the record for a reference, or nil when none exists.
	Get(ctx context.Context, reference string) (*tracking.TrackingRecord, error)

	UpsertPreArrival(ctx context.Context, reference, at, driverLabel string) error
	UpsertOnLocation(ctx context.Context, reference, at string) error
	UpsertStart(ctx context.Context, reference, at, startClock string) error
	UpsertFinish(ctx context.Context, reference, endClock, at, notes, authoredAt, version string) error

	// UpsertTimes records manually entered operational times. Empty
	// start or end leaves the existing value untouched.
	UpsertTimes(ctx context.Context, reference, start, end, driverLabel, authoredAt, notes, version string) error

	// Delete removes the record entirely; no-op when absent.
	Delete(ctx context.Context, reference string) error
}

// PingStore appends GPS samples and reads back the in-ride path.
type PingStore interface {
	InsertPreArrival(ctx context.Context, ping location.PreArrivalPing) error
	InsertRide(ctx context.Context, ping location.RidePing) error
	RidePoints(ctx context.Context, reference string) ([]GeoPoint, error)
}

// SnapshotStore archives rendered service summaries.
type SnapshotStore interface {
	SaveResume(ctx context.Context, orderID uint, reference, html, createdOn string) error
}

// SurveyStore keeps one logical survey row per order.
type SurveyStore interface {
	Submit(ctx context.Context, orderID uint, reference string, points int, comments, submittedOn string) error
	Update(ctx context.Context, orderID uint, points int, comments string) error
	Exists(ctx context.Context, orderID uint) (bool, error)
}

// EvidenceStore persists the driver's evidence photo for a reference.
type EvidenceStore interface {
	Save(reference, imageBase64 string) error
}

// Mailer delivers a rendered message. Failures are reported but never
// roll back the checkpoint write that preceded them.
type Mailer interface {
	Send(html, plaintext, subject string, to map[string]string) error
}

// RouteMapper renders the traveled route and resolves its endpoints.
type RouteMapper interface {
	// CreateMap returns a rendered map reference for the path, or an
	// empty string when it cannot be built.
	CreateMap(reference string, points []GeoPoint) (string, error)

	// Address reverse-geocodes a point; empty string when unresolved.
	Address(point GeoPoint) string

	// Distance measures the path length in kilometers.
	Distance(points []GeoPoint) float64
}
