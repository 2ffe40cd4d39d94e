package model

import (
	"time"

	"github.com/google/uuid"
)

// StockDecrement records one committed stock change of a checkout.
type StockDecrement struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
}

// CheckoutIncident marks a checkout whose stock was decremented but whose
// receipt could not be written. It stays open until an operator resolves it.
type CheckoutIncident struct {
	BaseModel
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"userId"`
	IdempotencyKey *string          `gorm:"type:varchar(100);index" json:"idempotencyKey,omitempty"`
	Decrements     []StockDecrement `gorm:"serializer:json;type:text;not null" json:"decrements"`
	Reason         string           `gorm:"type:text;not null" json:"reason"`
	Resolved       bool             `gorm:"not null;default:false;index" json:"resolved"`
	ResolvedAt     *time.Time       `json:"resolvedAt,omitempty"`
	ResolvedBy     string           `gorm:"type:varchar(100)" json:"resolvedBy,omitempty"`
	Note           string           `gorm:"type:text" json:"note,omitempty"`
}
