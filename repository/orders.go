// Package repository implements the persistence boundaries of the
// lifecycle engine on GORM/Postgres, plus the filesystem evidence
// store.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"driver-dispatch/constants"
	"driver-dispatch/models/order"
	"driver-dispatch/services/lifecycle"
)

// Scheduled dates are stored m/d/Y, so range queries go through
// to_date on the database side.
const scheduledDateExpr = "to_date(scheduled_date, 'MM/DD/YYYY')"

type Orders struct {
	db *gorm.DB
}

func NewOrders(db *gorm.DB) *Orders {
	return &Orders{db: db}
}

func (r *Orders) ResolveReference(ctx context.Context, orderID uint, driverCode string) (string, error) {
	var o order.ServiceOrder
	err := r.db.WithContext(ctx).
		Select("reference").
		Where("id = ? AND driver_code = ? AND status <> ?", orderID, driverCode, constants.OrderStatusCancelled).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", lifecycle.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return o.Reference, nil
}

func (r *Orders) ResolveReferenceByID(ctx context.Context, orderID uint) (string, error) {
	var o order.ServiceOrder
	err := r.db.WithContext(ctx).
		Select("reference").
		Where("id = ? AND status <> ?", orderID, constants.OrderStatusCancelled).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", lifecycle.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return o.Reference, nil
}

func (r *Orders) Get(ctx context.Context, orderID uint, driverCode string) (*order.ServiceOrder, error) {
	var o order.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Passenger").
		Where("id = ? AND driver_code = ? AND status <> ?", orderID, driverCode, constants.OrderStatusCancelled).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Orders) Accept(ctx context.Context, orderID uint, stamp, driverCode string) error {
	res := r.db.WithContext(ctx).
		Model(&order.ServiceOrder{}).
		Where("id = ? AND status <> ?", orderID, constants.OrderStatusCancelled).
		Updates(map[string]interface{}{
			"acceptance_stamp": stamp,
			"driver_code":      driverCode,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

func (r *Orders) Decline(ctx context.Context, orderID uint) error {
	res := r.db.WithContext(ctx).
		Model(&order.ServiceOrder{}).
		Where("id = ? AND status <> ?", orderID, constants.OrderStatusCancelled).
		Updates(map[string]interface{}{
			"acceptance_stamp": nil,
			"driver_code":      nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

func (r *Orders) Reconfirm(ctx context.Context, orderID uint, at string) error {
	res := r.db.WithContext(ctx).
		Model(&order.ServiceOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"reconfirmed":      true,
			"reconfirmed_note": "1",
			"reconfirmed_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

func (r *Orders) Reschedule(ctx context.Context, orderID uint, hour, minute int, notes string) error {
	res := r.db.WithContext(ctx).
		Model(&order.ServiceOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"start_hour":   hour,
			"start_minute": minute,
			"driver_notes": notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

func (r *Orders) ListBetween(ctx context.Context, driverCode, from, to string) ([]order.ServiceOrder, error) {
	var orders []order.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Passenger").
		Where("driver_code = ? AND status <> ?", driverCode, constants.OrderStatusCancelled).
		Where(scheduledDateExpr+" BETWEEN to_date(?, 'MM/DD/YYYY') AND to_date(?, 'MM/DD/YYYY')", from, to).
		Order(scheduledDateExpr + " DESC, start_hour DESC, start_minute DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Orders) ListByDate(ctx context.Context, driverCode, date string) ([]order.ServiceOrder, error) {
	var orders []order.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Passenger").
		Where("driver_code = ? AND status <> ? AND scheduled_date = ?", driverCode, constants.OrderStatusCancelled, date).
		Order("start_hour, start_minute").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Orders) NextPending(ctx context.Context, driverCode, from, to string) (*order.ServiceOrder, error) {
	var o order.ServiceOrder
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN tracking_records tr ON tr.reference = service_orders.reference").
		Where("service_orders.driver_code = ? AND service_orders.status <> ?", driverCode, constants.OrderStatusCancelled).
		Where(scheduledDateExpr+" BETWEEN to_date(?, 'MM/DD/YYYY') AND to_date(?, 'MM/DD/YYYY')", from, to).
		Where("tr.id IS NULL OR tr.start_time IS NULL OR tr.start_time = '' OR tr.end_time IS NULL OR tr.end_time = ''").
		Order(scheduledDateExpr + ", start_hour, start_minute").
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
