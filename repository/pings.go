package repository

import (
	"context"

	"gorm.io/gorm"

	"driver-dispatch/models/location"
	"driver-dispatch/services/lifecycle"
)

// Pings appends to the two GPS streams and reads the in-ride path back
// for the route map.
type Pings struct {
	db *gorm.DB
}

func NewPings(db *gorm.DB) *Pings {
	return &Pings{db: db}
}

func (r *Pings) InsertPreArrival(ctx context.Context, ping location.PreArrivalPing) error {
	return r.db.WithContext(ctx).Create(&ping).Error
}

func (r *Pings) InsertRide(ctx context.Context, ping location.RidePing) error {
	return r.db.WithContext(ctx).Create(&ping).Error
}

func (r *Pings) RidePoints(ctx context.Context, reference string) ([]lifecycle.GeoPoint, error) {
	var pings []location.RidePing
	err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("id").
		Find(&pings).Error
	if err != nil {
		return nil, err
	}

	points := make([]lifecycle.GeoPoint, 0, len(pings))
	for _, p := range pings {
		points = append(points, lifecycle.GeoPoint{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
	}
	return points, nil
}
