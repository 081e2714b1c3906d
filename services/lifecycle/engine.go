package lifecycle

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"driver-dispatch/constants"
	"driver-dispatch/models/driver"
	"driver-dispatch/utils"
)

// Engine advances services through their checkpoint sequence and
// answers temporal-relevance questions. It is the only place with
// business rules; storage and the mail/map boundaries are collaborators
// behind interfaces.
type Engine struct {
	Orders    OrderStore
	Tracking  TrackingStore
	Pings     PingStore
	Snapshots SnapshotStore
	Surveys   SurveyStore
	Evidence  EvidenceStore
	Mail      Mailer
	Maps      RouteMapper

	// Now supplies the wall clock; overridable in tests.
	Now func() time.Time
}

// NewEngine wires the lifecycle engine with its collaborators.
func NewEngine(orders OrderStore, trk TrackingStore, pings PingStore, snapshots SnapshotStore,
	surveys SurveyStore, evidence EvidenceStore, mail Mailer, maps RouteMapper) *Engine {
	return &Engine{
		Orders:    orders,
		Tracking:  trk,
		Pings:     pings,
		Snapshots: snapshots,
		Surveys:   surveys,
		Evidence:  evidence,
		Mail:      mail,
		Maps:      maps,
		Now:       utils.NowInServiceZone,
	}
}

// AcceptOrDecline answers an assignment offer. Acceptance stamps the
// order and binds the driver; declining clears both, returning the
// order to the pending pool. Resolution is by id alone here, since the
// assignment itself is being decided. Safe to repeat.
func (e *Engine) AcceptOrDecline(ctx context.Context, orderID uint, accept bool, drv driver.Driver) error {
	if _, err := e.Orders.ResolveReferenceByID(ctx, orderID); err != nil {
		return err
	}

	if accept {
		stamp := e.Now().Format(constants.AcceptanceLayout)
		return e.Orders.Accept(ctx, orderID, stamp, drv.Code)
	}
	return e.Orders.Decline(ctx, orderID)
}

// Confirm records the pre-arrival confirmation: the order is flagged as
// reconfirmed and the preArrival checkpoint is upserted on the tracking
// record. Calling it again refreshes the timestamp and driver label on
// the same single row.
func (e *Engine) Confirm(ctx context.Context, orderID uint, drv driver.Driver) error {
	reference, err := e.Orders.ResolveReference(ctx, orderID, drv.Code)
	if err != nil {
		return err
	}

	now := e.Now()
	if err := e.Orders.Reconfirm(ctx, orderID, now.Format(constants.ReconfirmLayout)); err != nil {
		return err
	}

	return e.Tracking.UpsertPreArrival(ctx, reference, now.Format(constants.CheckpointLayout), drv.Label())
}

// OnSource marks the driver physically at the pickup point.
func (e *Engine) OnSource(ctx context.Context, orderID uint, drv driver.Driver) error {
	reference, err := e.Orders.ResolveReference(ctx, orderID, drv.Code)
	if err != nil {
		return err
	}

	return e.Tracking.UpsertOnLocation(ctx, reference, e.Now().Format(constants.CheckpointLayout))
}

// StartService records the beginning of the ride: the pickupStarted
// checkpoint plus the operational HH:MM start time. A repeated call
// refreshes both on the same row.
func (e *Engine) StartService(ctx context.Context, orderID uint, drv driver.Driver) error {
	reference, err := e.Orders.ResolveReference(ctx, orderID, drv.Code)
	if err != nil {
		return err
	}

	now := e.Now()
	return e.Tracking.UpsertStart(ctx, reference,
		now.Format(constants.CheckpointLayout), now.Format(constants.ClockLayout))
}

// RescheduleTime moves the scheduled start of a not-yet-confirmed
// service and appends an audit line to the order's driver notes. Once
// preArrival is set the schedule is locked and the call fails with
// ErrConflict. Each successful call appends a new audit line.
func (e *Engine) RescheduleTime(ctx context.Context, orderID uint, drv driver.Driver, clock string) error {
	hour, minute, err := parseClock(clock)
	if err != nil {
		return err
	}

	o, err := e.Orders.Get(ctx, orderID, drv.Code)
	if err != nil {
		return err
	}

	t, err := e.Tracking.Get(ctx, o.Reference)
	if err != nil {
		return err
	}
	if t.HasPreArrival() {
		return ErrConflict
	}

	previous := fmt.Sprintf("%02d:%02d", o.StartHour, o.StartMinute)
	notes := fmt.Sprintf("%s ** El conductor %s cambia la hora del servicio de %s a %s",
		o.DriverNotes, drv.FullName(), previous, clock)

	return e.Orders.Reschedule(ctx, orderID, hour, minute, notes)
}

// DeleteTrace removes the tracking record for a service entirely.
// Safe to repeat: deleting an absent record is a no-op.
func (e *Engine) DeleteTrace(ctx context.Context, orderID uint, drv driver.Driver) error {
	reference, err := e.Orders.ResolveReference(ctx, orderID, drv.Code)
	if err != nil {
		return err
	}

	return e.Tracking.Delete(ctx, reference)
}

// TraceService records manually entered operational times, re-accepting
// the order and persisting the optional evidence photo first. Both
// times "0" means "now". An evidence failure aborts the whole call.
func (e *Engine) TraceService(ctx context.Context, orderID uint, drv driver.Driver, start, end, observations, image, version string) error {
	reference, err := e.Orders.ResolveReference(ctx, orderID, drv.Code)
	if err != nil {
		return err
	}

	now := e.Now()
	if err := e.Orders.Accept(ctx, orderID, now.Format(constants.AcceptanceLayout), drv.Code); err != nil {
		return err
	}

	if image != "" {
		if err := e.Evidence.Save(reference, image); err != nil {
			return fmt.Errorf("%w: %v", ErrEvidenceUpload, err)
		}
	}

	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "0" && end == "0" {
		clock := now.Format(constants.ClockLayout)
		start, end = clock, clock
	}

	return e.Tracking.UpsertTimes(ctx, reference, start, end, drv.Label(),
		now.Format(constants.AuthoredLayout), appNotes(observations), version)
}

// Qualify stores the passenger survey for a finished service. A repeat
// submission overwrites points and comments instead of appending.
func (e *Engine) Qualify(ctx context.Context, orderID uint, drv driver.Driver, points int, comments string) error {
	reference, err := e.Orders.ResolveReference(ctx, orderID, drv.Code)
	if err != nil {
		return err
	}

	if comments == "" {
		comments = "Sin comentarios"
	}

	exists, err := e.Surveys.Exists(ctx, orderID)
	if err != nil {
		return err
	}
	if exists {
		return e.Surveys.Update(ctx, orderID, points, comments)
	}
	return e.Surveys.Submit(ctx, orderID, reference, points, comments,
		e.Now().Format(constants.CheckpointLayout))
}

func appNotes(observations string) string {
	if strings.TrimSpace(observations) == "" {
		observations = constants.DefaultServiceNotes
	}
	return observations + constants.AppNotesSuffix
}

func parseClock(clock string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid time %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q", clock)
	}
	return hour, minute, nil
}
