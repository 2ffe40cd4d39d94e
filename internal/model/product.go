package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	StatusInStock      ProductStatus = "IN_STOCK"
	StatusOutOfStock   ProductStatus = "OUT_OF_STOCK"
	StatusDiscontinued ProductStatus = "DISCONTINUED"
)

type Category string

const (
	CategoryFood         Category = "FOOD"
	CategoryBeverage     Category = "BEVERAGE"
	CategoryCleaning     Category = "CLEANING"
	CategoryPersonalCare Category = "PERSONAL_CARE"
	CategorySchool       Category = "SCHOOL_SUPPLIES"
	CategoryOther        Category = "OTHER"
)

type Product struct {
	BaseModel
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"ownerId"`
	Name            string          `gorm:"type:varchar(100);not null" json:"name"`
	Description     string          `gorm:"type:varchar(500);not null" json:"description"`
	Category        Category        `gorm:"type:varchar(20);not null" json:"category"`
	Quantity        int             `gorm:"not null;default:0" json:"quantity"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Status          ProductStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	ProductImageURL *string         `gorm:"type:text" json:"productImageUrl"`
}

// DeriveStatus is the one place product status is computed from stock.
// DISCONTINUED is sticky; otherwise an empty shelf is OUT_OF_STOCK.
func DeriveStatus(current ProductStatus, quantity int) ProductStatus {
	if current == StatusDiscontinued {
		return StatusDiscontinued
	}
	if quantity <= 0 {
		return StatusOutOfStock
	}
	return StatusInStock
}

// RestoredStatus is the status of a discontinued product brought back on sale.
func RestoredStatus(quantity int) ProductStatus {
	return DeriveStatus("", quantity)
}

// Sellable reports whether checkout may draw from the product.
func (p *Product) Sellable() bool {
	return p.Status != StatusDiscontinued
}
