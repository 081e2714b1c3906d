package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"driver-dispatch/models/resume"
)

// Snapshots archives rendered service summaries. Rows are append-only;
// finishing the same service twice archives two snapshots.
type Snapshots struct {
	db *gorm.DB
}

func NewSnapshots(db *gorm.DB) *Snapshots {
	return &Snapshots{db: db}
}

func (r *Snapshots) SaveResume(ctx context.Context, orderID uint, reference, html, createdOn string) error {
	snap := resume.ServiceResumeSnapshot{
		SnapshotKey: uuid.New(),
		OrderID:     orderID,
		Reference:   reference,
		HTMLContent: html,
		CreatedOn:   createdOn,
	}
	return r.db.WithContext(ctx).Create(&snap).Error
}
