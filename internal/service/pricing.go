package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Money is kept to cents; Round is half away from zero, i.e. half-up for amounts.
const moneyPlaces = 2

type PricedLine struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Totals struct {
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// PriceLines computes subtotals and cart totals from the snapshots in plan.
func PriceLines(plan []PlannedLine) ([]PricedLine, Totals) {
	lines := make([]PricedLine, 0, len(plan))
	totals := Totals{Amount: decimal.Zero}
	for _, p := range plan {
		subtotal := p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity))).Round(moneyPlaces)
		lines = append(lines, PricedLine{
			ProductID: p.ProductID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice.Round(moneyPlaces),
			Quantity:  p.Quantity,
			Subtotal:  subtotal,
		})
		totals.Quantity += p.Quantity
		totals.Amount = totals.Amount.Add(subtotal)
	}
	totals.Amount = totals.Amount.Round(moneyPlaces)
	return lines, totals
}
