package repository

import (
	"context"

	"gorm.io/gorm"

	"driver-dispatch/models/survey"
)

// Surveys keeps one logical response per order.
type Surveys struct {
	db *gorm.DB
}

func NewSurveys(db *gorm.DB) *Surveys {
	return &Surveys{db: db}
}

func (r *Surveys) Submit(ctx context.Context, orderID uint, reference string, points int, comments, submittedOn string) error {
	resp := survey.SurveyResponse{
		OrderID:     orderID,
		Reference:   reference,
		Points:      points,
		Comments:    comments,
		SubmittedOn: submittedOn,
	}
	return r.db.WithContext(ctx).Create(&resp).Error
}

func (r *Surveys) Update(ctx context.Context, orderID uint, points int, comments string) error {
	return r.db.WithContext(ctx).
		Model(&survey.SurveyResponse{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"points":   points,
			"comments": comments,
		}).Error
}

func (r *Surveys) Exists(ctx context.Context, orderID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&survey.SurveyResponse{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
