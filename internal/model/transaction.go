package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrImmutableRecord is returned by gorm hooks when something tries to change a receipt.
var ErrImmutableRecord = errors.New("transaction records are immutable")

type TransactionType string

const TxCheckout TransactionType = "CHECKOUT"

// Transaction is the receipt of one completed checkout. Names and prices are
// snapshots; later product edits never reach an existing receipt.
type Transaction struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_tx_user_created,priority:1;uniqueIndex:idx_tx_user_idem,priority:1" json:"userId"`
	IdempotencyKey *string         `gorm:"type:varchar(100);uniqueIndex:idx_tx_user_idem,priority:2" json:"-"`
	Type           TransactionType `gorm:"type:varchar(20);not null" json:"type"`
	TotalQuantity  int             `gorm:"not null" json:"totalQuantity"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"totalAmount"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amountPaid"`
	Change         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"change"`
	Currency       string          `gorm:"type:varchar(3);not null" json:"currency"`
	CreatedAt      time.Time       `gorm:"not null;index:idx_tx_user_created,priority:2" json:"createdAt"`

	Lines []TransactionLine `gorm:"foreignKey:TransactionID;constraint:OnDelete:RESTRICT" json:"lines"`
}

type TransactionLine struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position      int             `gorm:"not null" json:"-"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null" json:"productId"`
	Name          string          `gorm:"type:varchar(100);not null" json:"name"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error { return ErrImmutableRecord }
func (t *Transaction) BeforeDelete(tx *gorm.DB) error { return ErrImmutableRecord }

func (l *TransactionLine) BeforeUpdate(tx *gorm.DB) error { return ErrImmutableRecord }
func (l *TransactionLine) BeforeDelete(tx *gorm.DB) error { return ErrImmutableRecord }
