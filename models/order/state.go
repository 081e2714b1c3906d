package order

import (
	"driver-dispatch/models/tracking"
)

// LifecycleState is the derived position of a service in its checkpoint
// sequence. It is never stored: the tracking record's nullable timestamps
// are the source of truth and the state is projected at read time.
type LifecycleState string

const (
	StatePending       LifecycleState = "pending"
	StateAccepted      LifecycleState = "accepted"
	StateConfirmed     LifecycleState = "confirmed"
	StateOnLocation    LifecycleState = "on_location"
	StatePickupStarted LifecycleState = "pickup_started"
	StateFinished      LifecycleState = "finished"
)

func (s LifecycleState) String() string {
	return string(s)
}

func (s LifecycleState) IsValid() bool {
	switch s {
	case StatePending, StateAccepted, StateConfirmed, StateOnLocation, StatePickupStarted, StateFinished:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the service can no longer advance.
func (s LifecycleState) IsTerminal() bool {
	return s == StateFinished
}

// CanReschedule returns true while the start time may still be moved.
// Once the driver has confirmed, the schedule is locked.
func (s LifecycleState) CanReschedule() bool {
	return s == StatePending || s == StateAccepted
}

// ProjectState derives the lifecycle state from the order's acceptance
// stamp and the tracking record's checkpoints. The checkpoints are
// filled monotonically, so the latest non-empty one wins.
func ProjectState(o *ServiceOrder, t *tracking.TrackingRecord) LifecycleState {
	if t != nil {
		switch {
		case t.IsComplete() || has(t.Finished):
			return StateFinished
		case has(t.PickupStarted):
			return StatePickupStarted
		case has(t.OnLocation):
			return StateOnLocation
		case has(t.PreArrival):
			return StateConfirmed
		}
	}
	if o != nil && o.AcceptanceStamp != nil && *o.AcceptanceStamp != "" {
		return StateAccepted
	}
	return StatePending
}

func has(s *string) bool {
	return s != nil && *s != ""
}
