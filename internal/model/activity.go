package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityAction string

const (
	ActionCheckout         ActivityAction = "Checkout"
	ActionAddProduct       ActivityAction = "Add Product"
	ActionEditProduct      ActivityAction = "Edit Product"
	ActionArchiveProduct   ActivityAction = "Archive Product"
	ActionUnarchiveProduct ActivityAction = "Unarchive Product"
)

// Activity is one line of the append-only audit trail shown to admins.
type Activity struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Action    ActivityAction `gorm:"type:varchar(30);not null" json:"action"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	Username  string         `gorm:"type:varchar(100);not null" json:"username"`
	SubjectID *uuid.UUID     `gorm:"type:uuid" json:"subjectId,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"createdAt"`
}

func (Activity) TableName() string {
	return "recent_activities"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Activity) BeforeUpdate(tx *gorm.DB) error { return ErrImmutableRecord }
