package lifecycle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"driver-dispatch/models/order"
)

func orderWithPassenger(email string) order.ServiceOrder {
	o := baseOrder()
	o.Passenger = &order.Passenger{
		Code:     "P100",
		Name:     "Ana",
		LastName: "Ruiz",
		Email:    email,
	}
	return o
}

func TestFinishServiceSendsResume(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 11, 30))
	env.addOrder(orderWithPassenger("ana@example.com"))
	env.pings.points = []GeoPoint{
		{Latitude: "4.6097", Longitude: "-74.0817"},
		{Latitude: "4.6500", Longitude: "-74.1000"},
		{Latitude: "4.7010", Longitude: "-74.1461"},
	}
	env.maps.addresses = map[string]string{
		"4.6097,-74.0817": "Calle 100 # 8-50, Bogotá",
		"4.7010,-74.1461": "Aeropuerto El Dorado, Bogotá",
	}
	ctx := context.Background()

	if err := env.engine.StartService(ctx, 7, testDriver); err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := env.engine.FinishService(ctx, 7, testDriver, "Sin novedades", "", "2.1")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.NotificationSkipped {
		t.Error("notification must not be skipped with a valid email")
	}

	rec := env.tracking.records["REF-7001"]
	if !rec.HasFinished() || rec.EndTime == nil || *rec.EndTime != "11:30" {
		t.Error("finish checkpoint or end time missing")
	}

	if len(env.snapshots.saved) != 1 {
		t.Fatalf("expected one archived snapshot, got %d", len(env.snapshots.saved))
	}

	if len(env.mailer.sent) != 2 {
		t.Fatalf("expected passenger and driver copies, got %d mails", len(env.mailer.sent))
	}
	passengerMail := env.mailer.sent[0]
	if _, ok := passengerMail.to["ana@example.com"]; !ok {
		t.Errorf("passenger mail went to %v", passengerMail.to)
	}
	if !strings.Contains(passengerMail.html, "https://maps.example/route.png") {
		t.Error("passenger mail must embed the route map")
	}
	if !strings.Contains(passengerMail.html, "Aeropuerto El Dorado, Bogotá") {
		t.Error("reverse-geocoded destination missing from the mail")
	}
	driverMail := env.mailer.sent[1]
	if _, ok := driverMail.to["jperez@example.com"]; !ok {
		t.Errorf("driver copy went to %v", driverMail.to)
	}
}

func TestFinishServiceWithoutEmailSkipsPassengerCopy(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 11, 30))
	env.addOrder(orderWithPassenger(""))
	ctx := context.Background()

	result, err := env.engine.FinishService(ctx, 7, testDriver, "", "", "2.1")
	if err != nil {
		t.Fatalf("finish must succeed without a passenger email: %v", err)
	}
	if !result.NotificationSkipped {
		t.Error("skip must be reported")
	}
	if len(env.snapshots.saved) != 0 {
		t.Error("no snapshot without a passenger mail")
	}
	if len(env.mailer.sent) != 1 {
		t.Fatalf("driver copy must still go out, got %d mails", len(env.mailer.sent))
	}
	if _, ok := env.mailer.sent[0].to["jperez@example.com"]; !ok {
		t.Errorf("driver copy went to %v", env.mailer.sent[0].to)
	}
}

func TestFinishServiceInvalidEmailSkips(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 11, 30))
	env.addOrder(orderWithPassenger("sin-correo"))

	result, err := env.engine.FinishService(context.Background(), 7, testDriver, "", "", "2.1")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !result.NotificationSkipped || result.SkipReason == "" {
		t.Error("invalid email must be reported as a skip")
	}
}

func TestFinishServiceEvidenceFailure(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 11, 30))
	env.addOrder(orderWithPassenger("ana@example.com"))
	env.evidence.err = errors.New("permission denied")

	_, err := env.engine.FinishService(context.Background(), 7, testDriver, "", "aW1n", "2.1")
	if !errors.Is(err, ErrEvidenceUpload) {
		t.Fatalf("expected ErrEvidenceUpload, got %v", err)
	}

	// The checkpoint write precedes the evidence upload and stays.
	rec := env.tracking.records["REF-7001"]
	if rec == nil || !rec.HasFinished() {
		t.Error("finish checkpoint should already be committed")
	}
	if len(env.mailer.sent) != 0 {
		t.Error("no mail may go out after an aborted finish")
	}
}

func TestFinishServiceWithoutRoutePointsFallsBack(t *testing.T) {
	env := newTestEnv(at(2024, time.March, 1, 11, 30))
	env.addOrder(orderWithPassenger("ana@example.com"))
	ctx := context.Background()

	if err := env.engine.StartService(ctx, 7, testDriver); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := env.engine.FinishService(ctx, 7, testDriver, "", "", "2.1"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if env.maps.created != 0 {
		t.Error("no map without route points")
	}
	if len(env.mailer.sent) != 2 {
		t.Fatalf("mails must still go out, got %d", len(env.mailer.sent))
	}
	if !strings.Contains(env.mailer.sent[0].html, "Aeropuerto El Dorado") {
		t.Error("textual destination fallback missing from the mail")
	}
}
