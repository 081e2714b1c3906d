package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"driver-dispatch/models/tracking"
)

// Tracking owns the single record per reference. Every upsert conflicts
// on the reference column and assigns only the columns the calling
// operation owns, so checkpoints written by other operations survive.
type Tracking struct {
	db *gorm.DB
}

func NewTracking(db *gorm.DB) *Tracking {
	return &Tracking{db: db}
}

func (r *Tracking) Get(ctx context.Context, reference string) (*tracking.TrackingRecord, error) {
	var t tracking.TrackingRecord
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Tracking) UpsertPreArrival(ctx context.Context, reference, at, driverLabel string) error {
	rec := tracking.TrackingRecord{
		Reference:   reference,
		PreArrival:  &at,
		DriverLabel: driverLabel,
	}
	return r.upsert(ctx, &rec, map[string]interface{}{
		"pre_arrival":  at,
		"driver_label": driverLabel,
	})
}

func (r *Tracking) UpsertOnLocation(ctx context.Context, reference, at string) error {
	rec := tracking.TrackingRecord{
		Reference:  reference,
		OnLocation: &at,
	}
	return r.upsert(ctx, &rec, map[string]interface{}{
		"on_location": at,
	})
}

func (r *Tracking) UpsertStart(ctx context.Context, reference, at, startClock string) error {
	rec := tracking.TrackingRecord{
		Reference:     reference,
		PickupStarted: &at,
		StartTime:     &startClock,
	}
	return r.upsert(ctx, &rec, map[string]interface{}{
		"pickup_started": at,
		"start_time":     startClock,
	})
}

func (r *Tracking) UpsertFinish(ctx context.Context, reference, endClock, at, notes, authoredAt, version string) error {
	rec := tracking.TrackingRecord{
		Reference:  reference,
		Finished:   &at,
		EndTime:    &endClock,
		Notes:      &notes,
		AuthoredAt: &authoredAt,
		AppVersion: &version,
	}
	return r.upsert(ctx, &rec, map[string]interface{}{
		"finished":    at,
		"end_time":    endClock,
		"notes":       notes,
		"authored_at": authoredAt,
		"app_version": version,
	})
}

func (r *Tracking) UpsertTimes(ctx context.Context, reference, start, end, driverLabel, authoredAt, notes, version string) error {
	rec := tracking.TrackingRecord{
		Reference:   reference,
		DriverLabel: driverLabel,
		Notes:       &notes,
		AuthoredAt:  &authoredAt,
		AppVersion:  &version,
	}
	assign := map[string]interface{}{
		"driver_label": driverLabel,
		"notes":        notes,
		"authored_at":  authoredAt,
		"app_version":  version,
	}
	if start != "" {
		rec.StartTime = &start
		assign["start_time"] = start
	}
	if end != "" {
		rec.EndTime = &end
		assign["end_time"] = end
	}
	return r.upsert(ctx, &rec, assign)
}

func (r *Tracking) Delete(ctx context.Context, reference string) error {
	return r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Delete(&tracking.TrackingRecord{}).Error
}

func (r *Tracking) upsert(ctx context.Context, rec *tracking.TrackingRecord, assign map[string]interface{}) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference"}},
		DoUpdates: clause.Assignments(assign),
	}).Create(rec).Error
}
