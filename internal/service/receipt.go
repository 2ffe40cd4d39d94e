package service

import (
	"time"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the client-facing projection of a transaction record.
type Receipt struct {
	TransactionID uuid.UUID     `json:"transactionId"`
	Items         []ReceiptLine `json:"items"`
	Totals        Totals        `json:"totals"`
	Payment       Payment       `json:"payment"`
	CreatedAt     time.Time     `json:"createdAt"`
	Replayed      bool          `json:"replayed,omitempty"`
	// Products holds the stock levels as left by this checkout.
	Products []StockLevel `json:"products,omitempty"`
}

// StockLevel is the part of a product a cashier needs after a sale.
type StockLevel struct {
	ID       uuid.UUID           `json:"id"`
	Quantity int                 `json:"quantity"`
	Status   model.ProductStatus `json:"status"`
}

func stockLevels(products []model.Product) []StockLevel {
	levels := make([]StockLevel, 0, len(products))
	for _, p := range products {
		levels = append(levels, StockLevel{ID: p.ID, Quantity: p.Quantity, Status: p.Status})
	}
	return levels
}

type ReceiptLine struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func ReceiptFromTransaction(tx *model.Transaction) Receipt {
	items := make([]ReceiptLine, 0, len(tx.Lines))
	for _, l := range tx.Lines {
		items = append(items, ReceiptLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		})
	}
	return Receipt{
		TransactionID: tx.ID,
		Items:         items,
		Totals:        Totals{Quantity: tx.TotalQuantity, Amount: tx.TotalAmount},
		Payment: Payment{
			AmountPaid: tx.AmountPaid,
			Change:     tx.Change,
			Currency:   tx.Currency,
		},
		CreatedAt: tx.CreatedAt,
	}
}
