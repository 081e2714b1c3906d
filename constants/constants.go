package constants

import "time"

// ServiceZone is the operating timezone for every schedule computation.
// Orders store wall-clock dates without offsets, so the zone is pinned
// here instead of relying on the process TZ.
var ServiceZone = time.FixedZone("America/Bogota", -5*60*60)

// Activity window around the scheduled start of a service. A driver may
// arrive early, and long assignments can run well past their start time.
const (
	PreArrivalWindowBefore = 2 * time.Hour
	PreArrivalWindowAfter  = 18 * time.Hour
)

// OrderStatusCancelled excludes an order from every driver-facing query.
const OrderStatusCancelled = "cancelar"

// DefaultServiceNotes is recorded when the driver closes a service
// without remarks. AppNotesSuffix marks notes written from the app.
const (
	DefaultServiceNotes = "SERVICIO SIN NOVEDAD"
	AppNotesSuffix      = "(APP)"
)

// Wall-clock formats carried over from the tracking tables.
const (
	ScheduledDateLayout = "01/02/2006"                    // m/d/Y
	CheckpointLayout    = "02/01/2006 15:04:05"           // d/m/Y H:i:s
	ClockLayout         = "15:04"                         // HH:MM
	AcceptanceLayout    = "Mon Jan 2 15:04:05 MST 2006"   // orden.CD stamp
	AuthoredLayout      = "Mon, January 02 2006, 15:04:05" // seguimiento.elaborado
	ReconfirmLayout     = "02/01/2006 15:04"
)

// Driver account state required for login.
const DriverStatusActive = "activo"
