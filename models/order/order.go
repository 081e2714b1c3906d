package order

import (
	"time"
)

// ServiceOrder represents one scheduled passenger-transport assignment.
// Reference is the stable business key joining the order to its single
// tracking record; it never changes once created.
type ServiceOrder struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference string `gorm:"type:varchar(100);not null;unique" json:"reference"`
	ClientOrder string `gorm:"type:varchar(100)" json:"client_order"`

	// Scheduling. The date is stored m/d/Y with the start time split into
	// hour and minute, as the dispatch office records it.
	ScheduledDate string `gorm:"type:varchar(10);not null;index" json:"scheduled_date"`
	StartHour     int    `gorm:"not null" json:"start_hour"`
	StartMinute   int    `gorm:"not null" json:"start_minute"`
	EntryDate     string `gorm:"type:varchar(10)" json:"entry_date"`
	EntryTime     string `gorm:"type:varchar(10)" json:"entry_time"`

	// Assignment. Empty DriverCode means unassigned; a non-empty
	// AcceptanceStamp means the driver accepted the service.
	DriverCode      *string `gorm:"type:varchar(50);index" json:"driver_code,omitempty"`
	AcceptanceStamp *string `gorm:"type:varchar(100)" json:"acceptance_stamp,omitempty"`

	Status string `gorm:"type:varchar(50);not null;default:pendiente" json:"status"`

	// Pre-arrival reconfirmation flags set when the driver confirms.
	Reconfirmed     bool    `gorm:"default:false" json:"reconfirmed"`
	ReconfirmedNote *string `gorm:"type:varchar(10)" json:"reconfirmed_note,omitempty"`
	ReconfirmedAt   *string `gorm:"type:varchar(30)" json:"reconfirmed_at,omitempty"`

	// Route and passenger detail, informational only.
	Flight       string `gorm:"type:varchar(50)" json:"flight"`
	Airline      string `gorm:"type:varchar(100)" json:"airline"`
	PaxCount     string `gorm:"type:varchar(10)" json:"pax_count"`
	Pax2         string `gorm:"type:varchar(255)" json:"pax2"`
	Pax3         string `gorm:"type:varchar(255)" json:"pax3"`
	Pax4         string `gorm:"type:varchar(255)" json:"pax4"`
	Pax5         string `gorm:"type:varchar(255)" json:"pax5"`
	SourceCity   string `gorm:"type:varchar(255)" json:"source_city"`
	SourceAddr   string `gorm:"type:text" json:"source_addr"`
	DestCity     string `gorm:"type:varchar(255)" json:"dest_city"`
	DestAddr     string `gorm:"type:text" json:"dest_addr"`
	Observations string `gorm:"type:text" json:"observations"`

	// Free-text audit trail appended by driver-initiated changes.
	DriverNotes string `gorm:"type:text" json:"driver_notes"`

	// Passenger of record at the origin.
	PassengerCode *string    `gorm:"type:varchar(50)" json:"passenger_code,omitempty"`
	Passenger     *Passenger `gorm:"foreignKey:PassengerCode;references:Code" json:"passenger,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the ServiceOrder model
func (ServiceOrder) TableName() string {
	return "service_orders"
}

// Passenger is the person picked up at the origin of a service.
type Passenger struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Code     string  `gorm:"type:varchar(50);not null;unique" json:"code"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	LastName string  `gorm:"type:varchar(255)" json:"last_name"`
	Phone    string  `gorm:"type:varchar(50)" json:"phone"`
	PhoneAlt *string `gorm:"type:varchar(50)" json:"phone_alt,omitempty"`
	Email    string  `gorm:"type:varchar(255)" json:"email"`
	EmailAlt *string `gorm:"type:varchar(255)" json:"email_alt,omitempty"`
	Company  string  `gorm:"type:varchar(255)" json:"company"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Passenger model
func (Passenger) TableName() string {
	return "passengers"
}
