package resume

import "github.com/google/uuid"

// ServiceResumeSnapshot archives the rendered summary sent to the
// passenger when a service finishes, independent of mail delivery.
// Rows are append-only.
type ServiceResumeSnapshot struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotKey uuid.UUID `gorm:"type:uuid;not null;unique" json:"snapshot_key"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	Reference   string    `gorm:"type:varchar(100);not null;index" json:"reference"`
	HTMLContent string    `gorm:"type:text;not null" json:"html_content"`
	CreatedOn   string    `gorm:"type:varchar(30);not null" json:"created_on"`
}

// TableName sets the table name for the ServiceResumeSnapshot model
func (ServiceResumeSnapshot) TableName() string {
	return "service_resume_snapshots"
}
