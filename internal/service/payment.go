package service

import (
	"go-inventory-pos/pkg/apperr"

	"github.com/shopspring/decimal"
)

type Payment struct {
	AmountPaid decimal.Decimal `json:"amountPaid"`
	Change     decimal.Decimal `json:"change"`
	Currency   string          `json:"currency"`
}

// ValidatePayment checks the tendered amount against total and returns the change.
// Tenders finer than a cent are rejected, so the receipt records exactly what
// was paid.
func ValidatePayment(total decimal.Decimal, tendered *decimal.Decimal, currency string) (Payment, error) {
	if tendered == nil {
		return Payment{}, apperr.Validation(apperr.CodeInvalidPayment, "amountPaid is required")
	}
	if tendered.IsNegative() {
		return Payment{}, apperr.Validation(apperr.CodeInvalidPayment, "amountPaid must not be negative").
			With("amountPaid", tendered.String())
	}

	if !tendered.Equal(tendered.Round(moneyPlaces)) {
		return Payment{}, apperr.Validation(apperr.CodeInvalidPayment, "amountPaid must be in whole cents").
			With("amountPaid", tendered.String())
	}

	paid := *tendered
	if paid.LessThan(total) {
		return Payment{}, apperr.Conflict(apperr.CodeInsufficientPayment, "payment of %s does not cover total %s",
			paid.StringFixed(moneyPlaces), total.StringFixed(moneyPlaces)).
			With("total", total).
			With("amountPaid", paid).
			With("shortfall", total.Sub(paid))
	}

	return Payment{
		AmountPaid: paid.Round(moneyPlaces),
		Change:     paid.Sub(total).Round(moneyPlaces),
		Currency:   currency,
	}, nil
}
