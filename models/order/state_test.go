package order

import (
	"testing"

	"driver-dispatch/models/tracking"
)

func sp(s string) *string { return &s }

func TestProjectState(t *testing.T) {
	accepted := &ServiceOrder{AcceptanceStamp: sp("Mon Mar 4 08:00:00 -05 2024")}

	cases := []struct {
		name  string
		order *ServiceOrder
		trace *tracking.TrackingRecord
		want  LifecycleState
	}{
		{"nothing at all", &ServiceOrder{}, nil, StatePending},
		{"empty acceptance stamp", &ServiceOrder{AcceptanceStamp: sp("")}, nil, StatePending},
		{"accepted, no trace", accepted, nil, StateAccepted},
		{"confirmed", accepted, &tracking.TrackingRecord{PreArrival: sp("04/03/2024 08:30:00")}, StateConfirmed},
		{"on location", accepted, &tracking.TrackingRecord{
			PreArrival: sp("04/03/2024 08:30:00"),
			OnLocation: sp("04/03/2024 09:40:00"),
		}, StateOnLocation},
		{"pickup started", accepted, &tracking.TrackingRecord{
			PickupStarted: sp("04/03/2024 10:02:00"),
		}, StatePickupStarted},
		{"finished checkpoint", accepted, &tracking.TrackingRecord{
			Finished: sp("04/03/2024 11:10:00"),
		}, StateFinished},
		{"complete times without finish checkpoint", accepted, &tracking.TrackingRecord{
			StartTime: sp("10:00"),
			EndTime:   sp("11:10"),
		}, StateFinished},
		{"trace without order still projects", nil, &tracking.TrackingRecord{
			OnLocation: sp("04/03/2024 09:40:00"),
		}, StateOnLocation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProjectState(tc.order, tc.trace); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestLifecycleStateHelpers(t *testing.T) {
	if !StateFinished.IsTerminal() || StatePickupStarted.IsTerminal() {
		t.Error("only finished is terminal")
	}
	if !StatePending.CanReschedule() || !StateAccepted.CanReschedule() {
		t.Error("pending and accepted may reschedule")
	}
	if StateConfirmed.CanReschedule() {
		t.Error("confirmation locks the schedule")
	}
	if LifecycleState("bogus").IsValid() {
		t.Error("unknown state reported valid")
	}
}
