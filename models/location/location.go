package location

// PreArrivalPing is one GPS sample reported while the driver travels to
// the pickup point. Rows are append-only and never modified.
type PreArrivalPing struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	Reference string `gorm:"type:varchar(100);not null;index" json:"reference"`
	Latitude  string `gorm:"type:varchar(30);not null" json:"latitude"`
	Longitude string `gorm:"type:varchar(30);not null" json:"longitude"`
	CreatedOn string `gorm:"type:varchar(30);not null" json:"created_on"`
}

// TableName sets the table name for the PreArrivalPing model
func (PreArrivalPing) TableName() string {
	return "pre_arrival_pings"
}

// RidePing is one GPS sample reported while the passenger is on board.
// Kept in its own table so the two streams stay separate.
type RidePing struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	Reference string `gorm:"type:varchar(100);not null;index" json:"reference"`
	Latitude  string `gorm:"type:varchar(30);not null" json:"latitude"`
	Longitude string `gorm:"type:varchar(30);not null" json:"longitude"`
	CreatedOn string `gorm:"type:varchar(30);not null" json:"created_on"`
}

// TableName sets the table name for the RidePing model
func (RidePing) TableName() string {
	return "ride_pings"
}
