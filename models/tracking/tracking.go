package tracking

import (
	"time"
)

// TrackingRecord holds the checkpoint timestamps for one service. There
// is at most one row per reference, created lazily on the first
// checkpoint write and then partially updated: each timestamp is filled
// once and never cleared by a later operation.
type TrackingRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference string `gorm:"type:varchar(100);not null;uniqueIndex" json:"reference"`

	// Checkpoint timestamps, d/m/Y H:i:s, each nullable.
	PreArrival    *string `gorm:"type:varchar(30)" json:"pre_arrival,omitempty"`
	OnLocation    *string `gorm:"type:varchar(30)" json:"on_location,omitempty"`
	PickupStarted *string `gorm:"type:varchar(30)" json:"pickup_started,omitempty"`
	Finished      *string `gorm:"type:varchar(30)" json:"finished,omitempty"`

	// Operational HH:MM times used for the elapsed-time computation at
	// finish, independent of the full timestamps above.
	StartTime *string `gorm:"type:varchar(10)" json:"start_time,omitempty"`
	EndTime   *string `gorm:"type:varchar(10)" json:"end_time,omitempty"`

	// DriverLabel is refreshed on every write: driver name + plate.
	DriverLabel string  `gorm:"type:varchar(255)" json:"driver_label"`
	Notes       *string `gorm:"type:text" json:"notes,omitempty"`
	AuthoredAt  *string `gorm:"type:varchar(50)" json:"authored_at,omitempty"`
	AppVersion  *string `gorm:"type:varchar(20)" json:"app_version,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the TrackingRecord model
func (TrackingRecord) TableName() string {
	return "tracking_records"
}

// HasPreArrival reports whether the pre-arrival confirmation was recorded.
func (t *TrackingRecord) HasPreArrival() bool { return t != nil && notEmpty(t.PreArrival) }

// HasOnLocation reports whether the driver marked arrival at the pickup point.
func (t *TrackingRecord) HasOnLocation() bool { return t != nil && notEmpty(t.OnLocation) }

// HasPickupStarted reports whether the ride has begun.
func (t *TrackingRecord) HasPickupStarted() bool { return t != nil && notEmpty(t.PickupStarted) }

// HasFinished reports whether the ride has ended.
func (t *TrackingRecord) HasFinished() bool { return t != nil && notEmpty(t.Finished) }

// IsComplete reports whether both operational times are present, which
// marks the service as fully closed out regardless of the checkpoint
// timestamps.
func (t *TrackingRecord) IsComplete() bool {
	return t != nil && notEmpty(t.StartTime) && notEmpty(t.EndTime)
}

// IsEmpty reports whether no checkpoint has been recorded yet.
func (t *TrackingRecord) IsEmpty() bool {
	if t == nil {
		return true
	}
	return !notEmpty(t.PreArrival) && !notEmpty(t.OnLocation) &&
		!notEmpty(t.PickupStarted) && !notEmpty(t.Finished)
}

func notEmpty(s *string) bool {
	return s != nil && *s != ""
}
