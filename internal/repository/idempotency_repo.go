package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IdempotencyRepository interface {
	Reserve(ctx context.Context, userID uuid.UUID, key string) (bool, error)
	Release(ctx context.Context, userID uuid.UUID, key string) error
}

type idempotencyRepo struct {
	db *gorm.DB
}

func NewIdempotencyRepo(db *gorm.DB) IdempotencyRepository {
	return &idempotencyRepo{db}
}

// Reserve claims key for userID. It reports false when the key is already held.
func (r *idempotencyRepo) Reserve(ctx context.Context, userID uuid.UUID, key string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.IdempotencyKey{UserID: userID, Key: key})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *idempotencyRepo) Release(ctx context.Context, userID uuid.UUID, key string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		Delete(&model.IdempotencyKey{}).Error
}
