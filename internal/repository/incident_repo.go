package repository

import (
	"context"
	"time"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IncidentRepository interface {
	Create(ctx context.Context, incident *model.CheckoutIncident) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CheckoutIncident, error)
	FindOpenByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*model.CheckoutIncident, error)
	FindAll(ctx context.Context, includeResolved bool) ([]model.CheckoutIncident, error)
	CountOpen(ctx context.Context) (int64, error)
	Resolve(ctx context.Context, id uuid.UUID, resolvedBy, note string, at time.Time) (bool, error)
}

type incidentRepo struct {
	db *gorm.DB
}

func NewIncidentRepo(db *gorm.DB) IncidentRepository {
	return &incidentRepo{db}
}

func (r *incidentRepo) Create(ctx context.Context, incident *model.CheckoutIncident) error {
	return r.db.WithContext(ctx).Create(incident).Error
}

func (r *incidentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CheckoutIncident, error) {
	var incident model.CheckoutIncident
	if err := r.db.WithContext(ctx).First(&incident, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepo) FindOpenByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*model.CheckoutIncident, error) {
	var incident model.CheckoutIncident
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ? AND resolved = ?", userID, key, false).
		First(&incident).Error
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

// FindAll returns incidents newest first; open ones only unless includeResolved.
func (r *incidentRepo) FindAll(ctx context.Context, includeResolved bool) ([]model.CheckoutIncident, error) {
	var incidents []model.CheckoutIncident
	q := r.db.WithContext(ctx)
	if !includeResolved {
		q = q.Where("resolved = ?", false)
	}
	err := q.Order("created_at DESC").Find(&incidents).Error
	return incidents, err
}

func (r *incidentRepo) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CheckoutIncident{}).Where("resolved = ?", false).Count(&count).Error
	return count, err
}

// Resolve closes an open incident. It reports false if the incident was already resolved.
func (r *incidentRepo) Resolve(ctx context.Context, id uuid.UUID, resolvedBy, note string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CheckoutIncident{}).
		Where("id = ? AND resolved = ?", id, false).
		Updates(map[string]interface{}{
			"resolved":    true,
			"resolved_at": at,
			"resolved_by": resolvedBy,
			"note":        note,
			"updated_by":  resolvedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
