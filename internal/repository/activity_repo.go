package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	WithTx(tx *gorm.DB) ActivityRepository
	Create(ctx context.Context, activity *model.Activity) error
	FindRecent(ctx context.Context, limit int) ([]model.Activity, error)
}

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db}
}

func (r *activityRepo) WithTx(tx *gorm.DB) ActivityRepository {
	return &activityRepo{tx}
}

func (r *activityRepo) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepo) FindRecent(ctx context.Context, limit int) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&activities).Error
	return activities, err
}
