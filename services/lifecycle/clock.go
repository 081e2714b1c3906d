package lifecycle

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"driver-dispatch/constants"

	nowpkg "github.com/jinzhu/now"
)

// Relevance classifies a service against the clock: whether it is still
// actionable in the driver's live worklist and whether the pre-arrival
// activity window is open.
type Relevance struct {
	Stale        bool
	WindowActive bool
	// Complete means both operational times are recorded; a complete
	// service reports every checkpoint as satisfied no matter what the
	// date math says.
	Complete bool
}

// ScheduledInstant builds the intended start instant from the order's
// m/d/Y date and split hour/minute, pinned to the operating timezone.
func ScheduledInstant(date string, hour, minute int) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(date), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid scheduled date %q", date)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid scheduled date %q: %w", date, err)
	}
	d, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid scheduled date %q: %w", date, err)
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid scheduled date %q: %w", date, err)
	}
	return time.Date(y, time.Month(m), d, hour, minute, 0, 0, constants.ServiceZone), nil
}

// Classify evaluates a service's temporal relevance.
//
// The window opens two hours before the scheduled start and closes
// eighteen hours after it. A service stays off the stale list when the
// window is open on the scheduled day itself, when it was confirmed on
// the scheduled day even after the window closed, or when its start is
// still in the future. Recorded start and end times override all of
// that: the service is complete.
func Classify(schedDate string, hour, minute int, preArrival, startTime, endTime string, now time.Time) Relevance {
	if strings.TrimSpace(startTime) != "" && strings.TrimSpace(endTime) != "" {
		return Relevance{Stale: false, WindowActive: true, Complete: true}
	}

	now = now.In(constants.ServiceZone)

	sched, err := ScheduledInstant(schedDate, hour, minute)
	if err != nil {
		return Relevance{Stale: true}
	}

	windowActive := !now.Before(sched.Add(-constants.PreArrivalWindowBefore)) &&
		!now.After(sched.Add(constants.PreArrivalWindowAfter))

	sameDay := nowpkg.With(now).BeginningOfDay().Equal(nowpkg.With(sched).BeginningOfDay())

	stale := true
	switch {
	case windowActive && sameDay:
		stale = false
	case !windowActive && strings.TrimSpace(preArrival) != "" && sameDay:
		stale = false
	case now.Before(sched):
		stale = false
	}

	return Relevance{Stale: stale, WindowActive: windowActive}
}

// CurrentForWorklist is the simple variant used when scanning for the
// nearest pending assignment: a service is current while its scheduled
// instant has not passed yet.
func CurrentForWorklist(scheduled, now time.Time) bool {
	return scheduled.After(now)
}
