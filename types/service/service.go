package service

import (
	"fmt"
)

// AcceptDeclineRequest accepts (Accept=1) or declines (Accept=0) an
// assignment offer.
type AcceptDeclineRequest struct {
	OrderID uint `json:"order_id" validate:"required"`
	Accept  int  `json:"accept" validate:"oneof=0 1"`
}

func (r AcceptDeclineRequest) Validate() error {
	if r.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	if r.Accept != 0 && r.Accept != 1 {
		return fmt.Errorf("accept must be 0 or 1")
	}
	return nil
}

// CheckpointRequest targets one order for confirm/on-source/start.
type CheckpointRequest struct {
	OrderID uint `json:"order_id" validate:"required"`
}

func (r CheckpointRequest) Validate() error {
	if r.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	return nil
}

// RescheduleRequest moves the scheduled start time of an order.
type RescheduleRequest struct {
	OrderID uint   `json:"order_id" validate:"required"`
	Time    string `json:"time" validate:"required"` // HH:MM
}

func (r RescheduleRequest) Validate() error {
	if r.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	if r.Time == "" {
		return fmt.Errorf("time is required")
	}
	return nil
}

// PingRequest reports one GPS sample for an order.
type PingRequest struct {
	OrderID   uint   `json:"order_id" validate:"required"`
	Latitude  string `json:"latitude" validate:"required"`
	Longitude string `json:"longitude" validate:"required"`
}

func (r PingRequest) Validate() error {
	if r.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	if r.Latitude == "" || r.Longitude == "" {
		return fmt.Errorf("latitude and longitude are required")
	}
	return nil
}

// FinishRequest closes a service out. Image is an optional base64
// evidence photo; Version is the reporting app build.
type FinishRequest struct {
	OrderID      uint   `json:"order_id" validate:"required"`
	Observations string `json:"observations"`
	Image        string `json:"image"`
	Version      string `json:"version"`
}

func (r FinishRequest) Validate() error {
	if r.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	return nil
}

// TraceRequest records start/end times manually, with optional evidence.
// "0" for both times means "use the current time".
type TraceRequest struct {
	OrderID      uint   `json:"order_id" validate:"required"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Observations string `json:"observations"`
	Image        string `json:"image"`
	Version      string `json:"version"`
}

func (r TraceRequest) Validate() error {
	if r.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	return nil
}

// QualifyRequest submits the passenger survey for a finished service.
type QualifyRequest struct {
	OrderID  uint   `json:"order_id" validate:"required"`
	Points   int    `json:"points" validate:"min=1,max=5"`
	Comments string `json:"comments"`
}

func (r QualifyRequest) Validate() error {
	if r.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	if r.Points < 1 || r.Points > 5 {
		return fmt.Errorf("points must be between 1 and 5")
	}
	return nil
}

// ServiceView is the driver-facing projection of one order with its
// tracking state and temporal relevance flags.
type ServiceView struct {
	ServiceID     uint   `json:"service_id"`
	Reference     string `json:"ref"`
	Event         string `json:"event"`
	EntryDate     string `json:"date"`
	ScheduledDate string `json:"sdate"`
	StartDate     string `json:"start_date"`      // m/d/Y H:MM
	StartDateNice string `json:"start_date_nice"` // "Ene 15/2024"
	StartClock    string `json:"service_start_time"`
	Flight        string `json:"fly"`
	Airline       string `json:"aeroline"`
	PaxCount      int    `json:"pax_cant"`
	Pax           string `json:"pax,omitempty"`
	Source        string `json:"source"`
	Destiny       string `json:"destiny"`
	Observations  string `json:"observations"`
	Status        string `json:"status"`
	State         string `json:"state"`

	PassengerName     string `json:"passenger_name"`
	PassengerLastName string `json:"passenger_lastname"`
	PassengerPhone    string `json:"phone"`
	PassengerEmail    string `json:"email1"`
	PassengerEmailAlt string `json:"email2"`
	Company           string `json:"company"`
	LicensePlate      string `json:"license_plate"`

	// Relevance flags, see the lifecycle clock.
	Old          bool `json:"old"`
	WindowActive bool `json:"window_active"`

	// Checkpoint presence plus raw timestamps.
	TraceID        uint    `json:"trace_id"`
	PreArrival     bool    `json:"pre_arrival"`
	PreArrivalAt   *string `json:"pre_arrival_at,omitempty"`
	OnLocation     bool    `json:"on_location"`
	OnLocationAt   *string `json:"on_location_at,omitempty"`
	PickupStarted  bool    `json:"pickup_started"`
	PickupStartedAt *string `json:"pickup_started_at,omitempty"`
	Finished       bool    `json:"finished"`
	FinishedAt     *string `json:"finished_at,omitempty"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	TraceNotes     string  `json:"tobservations"`
}

// PendingView is the result of the next-pending scan: the nearest
// actionable order id, or zero, plus its simple staleness flag.
type PendingView struct {
	ServiceID uint `json:"service_id"`
	Old       bool `json:"old"`
}

// GroupedServices is the driver worklist grouped by nice date headers.
type GroupedServices struct {
	Dates    []string        `json:"dates"`
	Services [][]ServiceView `json:"services"`
}
