package model

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey reserves a client's Idempotency-Key for one checkout. The row
// is written before stock is committed, so only one request per key can sell.
type IdempotencyKey struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key       string    `gorm:"column:idempotency_key;type:varchar(100);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}
