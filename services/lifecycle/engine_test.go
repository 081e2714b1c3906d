package lifecycle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"driver-dispatch/constants"
	"driver-dispatch/models/driver"
	"driver-dispatch/models/location"
	"driver-dispatch/models/order"
	"driver-dispatch/models/tracking"
)

var testDriver = driver.Driver{
	Code:         "C001",
	Name:         "Jorge",
	LastName:     "Pérez",
	Email:        "jperez@example.com",
	LicensePlate: "ABC123",
}

type fakeOrders struct {
	orders map[uint]*order.ServiceOrder
	pending *order.ServiceOrder
	listed  []order.ServiceOrder
}

func (f *fakeOrders) find(orderID uint) *order.ServiceOrder {
	o, ok := f.orders[orderID]
	if !ok || o.Status == constants.OrderStatusCancelled {
		return nil
	}
	return o
}

func (f *fakeOrders) ResolveReference(ctx context.Context, orderID uint, driverCode string) (string, error) {
	o := f.find(orderID)
	if o == nil || o.DriverCode == nil || *o.DriverCode != driverCode {
		return "", ErrNotFound
	}
	return o.Reference, nil
}

func (f *fakeOrders) ResolveReferenceByID(ctx context.Context, orderID uint) (string, error) {
	o := f.find(orderID)
	if o == nil {
		return "", ErrNotFound
	}
	return o.Reference, nil
}

func (f *fakeOrders) Get(ctx context.Context, orderID uint, driverCode string) (*order.ServiceOrder, error) {
	o := f.find(orderID)
	if o == nil || o.DriverCode == nil || *o.DriverCode != driverCode {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) Accept(ctx context.Context, orderID uint, stamp, driverCode string) error {
	o := f.find(orderID)
	if o == nil {
		return ErrNotFound
	}
	o.AcceptanceStamp = &stamp
	o.DriverCode = &driverCode
	return nil
}

func (f *fakeOrders) Decline(ctx context.Context, orderID uint) error {
	o := f.find(orderID)
	if o == nil {
		return ErrNotFound
	}
	o.AcceptanceStamp = nil
	o.DriverCode = nil
	return nil
}

func (f *fakeOrders) Reconfirm(ctx context.Context, orderID uint, at string) error {
	o := f.find(orderID)
	if o == nil {
		return ErrNotFound
	}
	o.Reconfirmed = true
	o.ReconfirmedAt = &at
	return nil
}

func (f *fakeOrders) Reschedule(ctx context.Context, orderID uint, hour, minute int, notes string) error {
	o := f.find(orderID)
	if o == nil {
		return ErrNotFound
	}
	o.StartHour = hour
	o.StartMinute = minute
	o.DriverNotes = notes
	return nil
}

func (f *fakeOrders) ListBetween(ctx context.Context, driverCode, from, to string) ([]order.ServiceOrder, error) {
	return f.listed, nil
}

func (f *fakeOrders) ListByDate(ctx context.Context, driverCode, date string) ([]order.ServiceOrder, error) {
	return f.listed, nil
}

func (f *fakeOrders) NextPending(ctx context.Context, driverCode, from, to string) (*order.ServiceOrder, error) {
	return f.pending, nil
}

// fakeTracking mimics the single-row-per-reference upsert contract:
// the first write creates the record, later writes touch only the
// columns their operation owns.
type fakeTracking struct {
	records map[string]*tracking.TrackingRecord
	creates int
}

func (f *fakeTracking) row(reference string) *tracking.TrackingRecord {
	if f.records == nil {
		f.records = map[string]*tracking.TrackingRecord{}
	}
	t, ok := f.records[reference]
	if !ok {
		f.creates++
		t = &tracking.TrackingRecord{ID: uint(len(f.records) + 1), Reference: reference}
		f.records[reference] = t
	}
	return t
}

func (f *fakeTracking) Get(ctx context.Context, reference string) (*tracking.TrackingRecord, error) {
	t, ok := f.records[reference]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTracking) UpsertPreArrival(ctx context.Context, reference, at, driverLabel string) error {
	t := f.row(reference)
	t.PreArrival = &at
	t.DriverLabel = driverLabel
	return nil
}

func (f *fakeTracking) UpsertOnLocation(ctx context.Context, reference, at string) error {
	t := f.row(reference)
	t.OnLocation = &at
	return nil
}

func (f *fakeTracking) UpsertStart(ctx context.Context, reference, at, startClock string) error {
	t := f.row(reference)
	t.PickupStarted = &at
	t.StartTime = &startClock
	return nil
}

func (f *fakeTracking) UpsertFinish(ctx context.Context, reference, endClock, at, notes, authoredAt, version string) error {
	t := f.row(reference)
	t.Finished = &at
	t.EndTime = &endClock
	t.Notes = &notes
	t.AuthoredAt = &authoredAt
	t.AppVersion = &version
	return nil
}

func (f *fakeTracking) UpsertTimes(ctx context.Context, reference, start, end, driverLabel, authoredAt, notes, version string) error {
	t := f.row(reference)
	if start != "" {
		t.StartTime = &start
	}
	if end != "" {
		t.EndTime = &end
	}
	t.DriverLabel = driverLabel
	t.AuthoredAt = &authoredAt
	t.Notes = &notes
	t.AppVersion = &version
	return nil
}

func (f *fakeTracking) Delete(ctx context.Context, reference string) error {
	delete(f.records, reference)
	return nil
}

type fakePings struct {
	preArrival []location.PreArrivalPing
	ride       []location.RidePing
	points     []GeoPoint
	failInsert error
}

func (f *fakePings) InsertPreArrival(ctx context.Context, ping location.PreArrivalPing) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.preArrival = append(f.preArrival, ping)
	return nil
}

func (f *fakePings) InsertRide(ctx context.Context, ping location.RidePing) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.ride = append(f.ride, ping)
	return nil
}

func (f *fakePings) RidePoints(ctx context.Context, reference string) ([]GeoPoint, error) {
	return f.points, nil
}

type fakeSnapshots struct {
	saved []string
}

func (f *fakeSnapshots) SaveResume(ctx context.Context, orderID uint, reference, html, createdOn string) error {
	f.saved = append(f.saved, html)
	return nil
}

type fakeSurveys struct {
	exists    bool
	submitted int
	updated   int
	points    int
	comments  string
}

func (f *fakeSurveys) Submit(ctx context.Context, orderID uint, reference string, points int, comments, submittedOn string) error {
	f.submitted++
	f.exists = true
	f.points = points
	f.comments = comments
	return nil
}

func (f *fakeSurveys) Update(ctx context.Context, orderID uint, points int, comments string) error {
	f.updated++
	f.points = points
	f.comments = comments
	return nil
}

func (f *fakeSurveys) Exists(ctx context.Context, orderID uint) (bool, error) {
	return f.exists, nil
}

type fakeEvidence struct {
	saved map[string]string
	err   error
}

func (f *fakeEvidence) Save(reference, imageBase64 string) error {
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[reference] = imageBase64
	return nil
}

type sentMail struct {
	subject string
	to      map[string]string
	html    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(html, plaintext, subject string, to map[string]string) error {
	f.sent = append(f.sent, sentMail{subject: subject, to: to, html: html})
	return f.err
}

type fakeMaps struct {
	url       string
	addresses map[string]string
	created   int
}

func (f *fakeMaps) CreateMap(reference string, points []GeoPoint) (string, error) {
	f.created++
	return f.url, nil
}

func (f *fakeMaps) Address(point GeoPoint) string {
	return f.addresses[point.Latitude+","+point.Longitude]
}

func (f *fakeMaps) Distance(points []GeoPoint) float64 {
	return 12.4
}

type testEnv struct {
	engine    *Engine
	orders    *fakeOrders
	tracking  *fakeTracking
	pings     *fakePings
	snapshots *fakeSnapshots
	surveys   *fakeSurveys
	evidence  *fakeEvidence
	mailer    *fakeMailer
	maps      *fakeMaps
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		orders:    &fakeOrders{orders: map[uint]*order.ServiceOrder{}},
		tracking:  &fakeTracking{},
		pings:     &fakePings{},
		snapshots: &fakeSnapshots{},
		surveys:   &fakeSurveys{},
		evidence:  &fakeEvidence{},
		mailer:    &fakeMailer{},
		maps:      &fakeMaps{url: "https://maps.example/route.png"},
	}
	env.engine = NewEngine(env.orders, env.tracking, env.pings, env.snapshots,
		env.surveys, env.evidence, env.mailer, env.maps)
	env.engine.Now = func() time.Time { return now }
	return env
}

func (env *testEnv) addOrder(o order.ServiceOrder) {
	env.orders.orders[o.ID] = &o
}

func strPtr(s string) *string { return &s }

func baseOrder() order.ServiceOrder {
	return order.ServiceOrder{
		ID:            7,
		Reference:     "REF-7001",
		ScheduledDate: "03/01/2024",
		StartHour:     10,
		StartMinute:   0,
		DriverCode:    strPtr("C001"),
		Status:        "pendiente",
		SourceCity:    "Bogotá",
		SourceAddr:    "Calle 100 # 8-50",
		DestCity:      "Bogotá",
		DestAddr:      "Aeropuerto El Dorado",
		PaxCount:      "2",
	}
}

func TestConfirmUpsertsSingleRecord(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 8, 30))
	env.addOrder(baseOrder())
	ctx := context.Background()

	if err := env.engine.Confirm(ctx, 7, testDriver); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if err := env.engine.Confirm(ctx, 7, testDriver); err != nil {
		t.Fatalf("second confirm: %v", err)
	}

	if env.tracking.creates != 1 {
		t.Errorf("expected a single tracking row, got %d creates", env.tracking.creates)
	}

	rec := env.tracking.records["REF-7001"]
	if !rec.HasPreArrival() {
		t.Fatal("preArrival checkpoint missing")
	}
	if *rec.PreArrival != "01/03/2024 08:30:00" {
		t.Errorf("preArrival = %q, want d/m/Y H:i:s of the clock", *rec.PreArrival)
	}
	if rec.DriverLabel != "Jorge Pérez (ABC123)" {
		t.Errorf("driver label = %q", rec.DriverLabel)
	}

	o := env.orders.orders[7]
	if !o.Reconfirmed {
		t.Error("order not flagged reconfirmed")
	}
}

func TestCheckpointSequenceProjectsStates(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 8, 30))
	env.addOrder(baseOrder())
	ctx := context.Background()

	steps := []struct {
		run  func() error
		want order.LifecycleState
	}{
		{func() error { return env.engine.Confirm(ctx, 7, testDriver) }, order.StateConfirmed},
		{func() error { return env.engine.OnSource(ctx, 7, testDriver) }, order.StateOnLocation},
		{func() error { return env.engine.StartService(ctx, 7, testDriver) }, order.StatePickupStarted},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("step towards %s: %v", step.want, err)
		}
		rec := env.tracking.records["REF-7001"]
		got := order.ProjectState(env.orders.orders[7], rec)
		if got != step.want {
			t.Errorf("state = %s, want %s", got, step.want)
		}
	}

	// Earlier checkpoints must survive the later writes.
	rec := env.tracking.records["REF-7001"]
	if !rec.HasPreArrival() || !rec.HasOnLocation() || !rec.HasPickupStarted() {
		t.Error("a later upsert cleared an earlier checkpoint")
	}
	if rec.StartTime == nil || *rec.StartTime != "08:30" {
		t.Errorf("start time not recorded, got %v", rec.StartTime)
	}
}

func TestStartServiceRepeatRefreshes(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 10, 5))
	env.addOrder(baseOrder())
	ctx := context.Background()

	if err := env.engine.StartService(ctx, 7, testDriver); err != nil {
		t.Fatalf("start: %v", err)
	}

	env.engine.Now = func() time.Time { return at(2024, time.March, 1, 10, 20) }
	if err := env.engine.StartService(ctx, 7, testDriver); err != nil {
		t.Fatalf("repeat start: %v", err)
	}

	rec := env.tracking.records["REF-7001"]
	if *rec.StartTime != "10:20" {
		t.Errorf("repeat start must refresh the clock, got %q", *rec.StartTime)
	}
	if env.tracking.creates != 1 {
		t.Errorf("expected one row, got %d", env.tracking.creates)
	}
}

func TestAcceptAndDecline(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 8, 0))
	o := baseOrder()
	o.DriverCode = nil
	env.addOrder(o)
	ctx := context.Background()

	if err := env.engine.AcceptOrDecline(ctx, 7, true, testDriver); err != nil {
		t.Fatalf("accept: %v", err)
	}
	stored := env.orders.orders[7]
	if stored.AcceptanceStamp == nil || *stored.AcceptanceStamp == "" {
		t.Error("acceptance stamp not written")
	}
	if stored.DriverCode == nil || *stored.DriverCode != "C001" {
		t.Error("driver not bound on accept")
	}
	if got := order.ProjectState(stored, nil); got != order.StateAccepted {
		t.Errorf("state = %s, want accepted", got)
	}

	if err := env.engine.AcceptOrDecline(ctx, 7, false, testDriver); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if stored.AcceptanceStamp != nil || stored.DriverCode != nil {
		t.Error("decline must clear stamp and driver")
	}
}

func TestRescheduleBeforeConfirmation(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 7, 0))
	env.addOrder(baseOrder())
	ctx := context.Background()

	if err := env.engine.RescheduleTime(ctx, 7, testDriver, "11:30"); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	o := env.orders.orders[7]
	if o.StartHour != 11 || o.StartMinute != 30 {
		t.Errorf("start = %d:%d, want 11:30", o.StartHour, o.StartMinute)
	}
	if !strings.Contains(o.DriverNotes, "cambia la hora del servicio de 10:00 a 11:30") {
		t.Errorf("audit line missing, notes = %q", o.DriverNotes)
	}

	// A second move appends a second audit line.
	if err := env.engine.RescheduleTime(ctx, 7, testDriver, "12:00"); err != nil {
		t.Fatalf("second reschedule: %v", err)
	}
	if !strings.Contains(o.DriverNotes, "de 11:30 a 12:00") {
		t.Errorf("second audit line missing, notes = %q", o.DriverNotes)
	}
}

func TestRescheduleAfterConfirmationConflicts(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 8, 30))
	env.addOrder(baseOrder())
	ctx := context.Background()

	if err := env.engine.Confirm(ctx, 7, testDriver); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	err := env.engine.RescheduleTime(ctx, 7, testDriver, "11:30")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	o := env.orders.orders[7]
	if o.StartHour != 10 || o.StartMinute != 0 {
		t.Error("conflicting reschedule must leave the order untouched")
	}
}

func TestRescheduleRejectsBadClock(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 7, 0))
	env.addOrder(baseOrder())

	for _, clock := range []string{"", "25:00", "10:75", "banana"} {
		if err := env.engine.RescheduleTime(context.Background(), 7, testDriver, clock); err == nil {
			t.Errorf("clock %q accepted", clock)
		}
	}
}

func TestCrossDriverAccessFails(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 8, 0))
	env.addOrder(baseOrder())
	other := driver.Driver{Code: "C099", Name: "Otro", LicensePlate: "ZZZ999"}
	ctx := context.Background()

	if err := env.engine.Confirm(ctx, 7, other); !errors.Is(err, ErrNotFound) {
		t.Errorf("confirm: expected ErrNotFound, got %v", err)
	}
	if _, err := env.engine.GetService(ctx, 7, other); !errors.Is(err, ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
	if err := env.engine.DeleteTrace(ctx, 7, other); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete trace: expected ErrNotFound, got %v", err)
	}
}

func TestCancelledOrderIsInvisible(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 8, 0))
	o := baseOrder()
	o.Status = constants.OrderStatusCancelled
	env.addOrder(o)

	if err := env.engine.Confirm(context.Background(), 7, testDriver); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for cancelled order, got %v", err)
	}
}

func TestDeleteTraceIdempotent(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 8, 30))
	env.addOrder(baseOrder())
	ctx := context.Background()

	if err := env.engine.Confirm(ctx, 7, testDriver); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := env.engine.DeleteTrace(ctx, 7, testDriver); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := env.tracking.records["REF-7001"]; ok {
		t.Fatal("tracking record still present")
	}
	// Deleting again is a no-op, not an error.
	if err := env.engine.DeleteTrace(ctx, 7, testDriver); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestTraceServiceZeroTimesMeanNow(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 14, 45))
	env.addOrder(baseOrder())
	ctx := context.Background()

	err := env.engine.TraceService(ctx, 7, testDriver, "0", "0", "", "", "2.1")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}

	rec := env.tracking.records["REF-7001"]
	if *rec.StartTime != "14:45" || *rec.EndTime != "14:45" {
		t.Errorf("times = %q/%q, want both 14:45", *rec.StartTime, *rec.EndTime)
	}
	if *rec.Notes != "SERVICIO SIN NOVEDAD(APP)" {
		t.Errorf("notes = %q", *rec.Notes)
	}

	// Tracing re-accepts the order for this driver.
	o := env.orders.orders[7]
	if o.AcceptanceStamp == nil || *o.AcceptanceStamp == "" {
		t.Error("trace must stamp acceptance")
	}
}

func TestTraceServiceExplicitTimes(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 2, 9, 0))
	env.addOrder(baseOrder())
	ctx := context.Background()

	err := env.engine.TraceService(ctx, 7, testDriver, "10:00", "11:25", "Peaje adicional", "", "2.1")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}

	rec := env.tracking.records["REF-7001"]
	if *rec.StartTime != "10:00" || *rec.EndTime != "11:25" {
		t.Errorf("times = %q/%q", *rec.StartTime, *rec.EndTime)
	}
	if *rec.Notes != "Peaje adicional(APP)" {
		t.Errorf("notes = %q", *rec.Notes)
	}
}

func TestTraceServiceEvidenceFailureAborts(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 2, 9, 0))
	env.addOrder(baseOrder())
	env.evidence.err = errors.New("disk full")

	err := env.engine.TraceService(context.Background(), 7, testDriver, "10:00", "11:00", "", "aW1n", "2.1")
	if !errors.Is(err, ErrEvidenceUpload) {
		t.Fatalf("expected ErrEvidenceUpload, got %v", err)
	}
	if _, ok := env.tracking.records["REF-7001"]; ok {
		t.Error("times must not be written after an evidence failure")
	}
}

func TestQualifySubmitsThenUpdates(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 2, 9, 0))
	env.addOrder(baseOrder())
	ctx := context.Background()

	if err := env.engine.Qualify(ctx, 7, testDriver, 5, ""); err != nil {
		t.Fatalf("qualify: %v", err)
	}
	if env.surveys.submitted != 1 || env.surveys.comments != "Sin comentarios" {
		t.Errorf("submit = %d, comments = %q", env.surveys.submitted, env.surveys.comments)
	}

	if err := env.engine.Qualify(ctx, 7, testDriver, 3, "Regular"); err != nil {
		t.Fatalf("second qualify: %v", err)
	}
	if env.surveys.submitted != 1 || env.surveys.updated != 1 {
		t.Errorf("repeat must update, not append: submitted=%d updated=%d",
			env.surveys.submitted, env.surveys.updated)
	}
	if env.surveys.points != 3 || env.surveys.comments != "Regular" {
		t.Errorf("survey not overwritten: %d %q", env.surveys.points, env.surveys.comments)
	}
}
