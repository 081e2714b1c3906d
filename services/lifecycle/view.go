package lifecycle

import (
	"context"
	"strconv"
	"strings"

	"driver-dispatch/constants"
	"driver-dispatch/models/driver"
	"driver-dispatch/models/order"
	"driver-dispatch/models/tracking"
	svc "driver-dispatch/types/service"
	"driver-dispatch/utils"
)

// GetService loads the full driver-facing view of one order: passenger
// detail, tracking state, lifecycle projection and relevance flags.
func (e *Engine) GetService(ctx context.Context, orderID uint, drv driver.Driver) (*svc.ServiceView, error) {
	o, err := e.Orders.Get(ctx, orderID, drv.Code)
	if err != nil {
		return nil, err
	}

	t, err := e.Tracking.Get(ctx, o.Reference)
	if err != nil {
		return nil, err
	}

	view := e.buildView(o, t, drv)
	return &view, nil
}

// SearchPending scans the recent past (ten days back through yesterday)
// for the oldest assignment whose tracking record is still missing an
// operational time. Only the nearest actionable item is returned, with
// the simple past/future staleness flag.
func (e *Engine) SearchPending(ctx context.Context, drv driver.Driver) (svc.PendingView, error) {
	now := e.Now()
	from := now.AddDate(0, 0, -10).Format(constants.ScheduledDateLayout)
	to := now.AddDate(0, 0, -1).Format(constants.ScheduledDateLayout)

	o, err := e.Orders.NextPending(ctx, drv.Code, from, to)
	if err != nil {
		return svc.PendingView{}, err
	}
	if o == nil {
		return svc.PendingView{ServiceID: 0, Old: true}, nil
	}

	old := true
	if sched, err := ScheduledInstant(o.ScheduledDate, o.StartHour, o.StartMinute); err == nil {
		old = !CurrentForWorklist(sched, now)
	}

	return svc.PendingView{ServiceID: o.ID, Old: old}, nil
}

// ServicesGrouped returns the driver's worklist from today through the
// next thirty days, grouped under nice date headers in ascending order.
func (e *Engine) ServicesGrouped(ctx context.Context, drv driver.Driver) (svc.GroupedServices, error) {
	now := e.Now()
	from := now.Format(constants.ScheduledDateLayout)
	to := now.AddDate(0, 0, 30).Format(constants.ScheduledDateLayout)

	orders, err := e.Orders.ListBetween(ctx, drv.Code, from, to)
	if err != nil {
		return svc.GroupedServices{}, err
	}

	return e.groupByDate(orders, drv), nil
}

// ServicesByDate returns the driver's worklist for a single date, in
// the same grouped shape the worklist uses.
func (e *Engine) ServicesByDate(ctx context.Context, drv driver.Driver, date string) (svc.GroupedServices, error) {
	orders, err := e.Orders.ListByDate(ctx, drv.Code, date)
	if err != nil {
		return svc.GroupedServices{}, err
	}

	return e.groupByDate(orders, drv), nil
}

// groupByDate buckets list views under their nice date headers. Lists
// arrive newest start first, so both slices are reversed at the end to
// read ascending.
func (e *Engine) groupByDate(orders []order.ServiceOrder, drv driver.Driver) svc.GroupedServices {
	now := e.Now()
	grouped := svc.GroupedServices{Dates: []string{}, Services: [][]svc.ServiceView{}}
	index := map[string]int{}

	for i := range orders {
		o := &orders[i]
		view := e.listView(o, drv)

		old := true
		if sched, err := ScheduledInstant(o.ScheduledDate, o.StartHour, o.StartMinute); err == nil {
			old = !CurrentForWorklist(sched, now)
		}
		view.Old = old

		key := view.StartDateNice
		pos, ok := index[key]
		if !ok {
			pos = len(grouped.Dates)
			index[key] = pos
			grouped.Dates = append(grouped.Dates, key)
			grouped.Services = append(grouped.Services, nil)
		}
		grouped.Services[pos] = append(grouped.Services[pos], view)
	}

	for i, j := 0, len(grouped.Dates)-1; i < j; i, j = i+1, j-1 {
		grouped.Dates[i], grouped.Dates[j] = grouped.Dates[j], grouped.Dates[i]
		grouped.Services[i], grouped.Services[j] = grouped.Services[j], grouped.Services[i]
	}

	return grouped
}

// buildView assembles the full single-service view with relevance and
// checkpoint flags. A complete service reports every checkpoint as
// satisfied regardless of the stored timestamps.
func (e *Engine) buildView(o *order.ServiceOrder, t *tracking.TrackingRecord, drv driver.Driver) svc.ServiceView {
	view := e.listView(o, drv)

	var preArrival, startTime, endTime string
	if t != nil {
		preArrival = deref(t.PreArrival)
		startTime = deref(t.StartTime)
		endTime = deref(t.EndTime)
	}

	rel := Classify(o.ScheduledDate, o.StartHour, o.StartMinute,
		preArrival, startTime, endTime, e.Now())

	view.Old = rel.Stale
	view.WindowActive = rel.WindowActive

	if t != nil {
		view.TraceID = t.ID
		view.PreArrival = t.HasPreArrival()
		view.PreArrivalAt = t.PreArrival
		view.OnLocation = t.HasOnLocation()
		view.OnLocationAt = t.OnLocation
		view.PickupStarted = t.HasPickupStarted()
		view.PickupStartedAt = t.PickupStarted
		view.Finished = t.HasFinished()
		view.FinishedAt = t.Finished
		view.StartTime = deref(t.StartTime)
		view.EndTime = deref(t.EndTime)
		view.TraceNotes = deref(t.Notes)
	}

	if rel.Complete {
		view.PreArrival = true
		view.OnLocation = true
		view.PickupStarted = true
		view.Finished = true
	}

	view.State = order.ProjectState(o, t).String()

	return view
}

// listView assembles the order-only portion of a view.
func (e *Engine) listView(o *order.ServiceOrder, drv driver.Driver) svc.ServiceView {
	paxCount := 1
	if n, err := strconv.Atoi(strings.TrimSpace(o.PaxCount)); err == nil {
		paxCount = n
	}

	view := svc.ServiceView{
		ServiceID:     o.ID,
		Reference:     o.Reference,
		Event:         strings.TrimSpace(o.ClientOrder),
		EntryDate:     strings.TrimSpace(o.EntryDate + " " + o.EntryTime),
		ScheduledDate: o.ScheduledDate,
		StartDate:     o.ScheduledDate + " " + clockString(o.StartHour, o.StartMinute),
		StartDateNice: utils.NiceDate(o.ScheduledDate),
		StartClock:    clockString(o.StartHour, o.StartMinute),
		Flight:        o.Flight,
		Airline:       o.Airline,
		PaxCount:      paxCount,
		Pax:           utils.JoinPassengers(o.Pax2, o.Pax3, o.Pax4, o.Pax5),
		Source:        joinPlace(o.SourceCity, o.SourceAddr),
		Destiny:       joinPlace(o.DestCity, o.DestAddr),
		Observations:  strings.TrimSpace(o.Observations),
		Status:        o.Status,
		State:         order.ProjectState(o, nil).String(),
		LicensePlate:  drv.LicensePlate,
	}

	if p := o.Passenger; p != nil {
		view.PassengerName = p.Name
		view.PassengerLastName = p.LastName
		view.PassengerPhone = joinPair(p.Phone, deref(p.PhoneAlt))
		view.PassengerEmail = strings.TrimSpace(p.Email)
		view.PassengerEmailAlt = strings.TrimSpace(deref(p.EmailAlt))
		view.Company = strings.TrimSpace(p.Company)
	}

	return view
}

func clockString(hour, minute int) string {
	return strconv.Itoa(hour) + ":" + pad2(minute)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func joinPlace(city, addr string) string {
	return strings.TrimSpace(city) + ", " + strings.TrimSpace(addr)
}

func joinPair(a, b string) string {
	return strings.TrimSpace(a) + ", " + strings.TrimSpace(b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
