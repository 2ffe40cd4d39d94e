package service_test

import (
	"testing"

	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planned(price string, qty int) service.PlannedLine {
	return service.PlannedLine{
		ProductID: uuid.New(),
		Name:      "item",
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestPriceLines(t *testing.T) {
	lines, totals := service.PriceLines([]service.PlannedLine{
		planned("10.00", 2),
		planned("0.10", 3),
		planned("19.99", 1),
	})

	require.Len(t, lines, 3)
	assertMoney(t, "20.00", lines[0].Subtotal)
	assertMoney(t, "0.30", lines[1].Subtotal)
	assertMoney(t, "19.99", lines[2].Subtotal)
	assert.Equal(t, 6, totals.Quantity)
	assertMoney(t, "40.29", totals.Amount)
}

func TestPriceLines_RoundsHalfUp(t *testing.T) {
	lines, totals := service.PriceLines([]service.PlannedLine{planned("0.125", 1), planned("1.005", 3)})

	assertMoney(t, "0.13", lines[0].Subtotal)
	assertMoney(t, "3.02", lines[1].Subtotal)
	assertMoney(t, "3.15", totals.Amount)
}

func TestPriceLines_Empty(t *testing.T) {
	lines, totals := service.PriceLines(nil)
	assert.Empty(t, lines)
	assert.Equal(t, 0, totals.Quantity)
	assertMoney(t, "0.00", totals.Amount)
}

func TestValidatePayment(t *testing.T) {
	total := decimal.RequireFromString("20.00")

	tests := []struct {
		name     string
		tendered *decimal.Decimal
		change   string
		code     string
	}{
		{name: "exact", tendered: money("20"), change: "0.00"},
		{name: "with change", tendered: money("25.00"), change: "5.00"},
		{name: "trailing zeros are whole cents", tendered: money("20.000"), change: "0.00"},
		{name: "sub-cent tender above total", tendered: money("20.004"), code: apperr.CodeInvalidPayment},
		{name: "sub-cent tender just below total", tendered: money("19.995"), code: apperr.CodeInvalidPayment},
		{name: "short by a cent", tendered: money("19.99"), code: apperr.CodeInsufficientPayment},
		{name: "missing", tendered: nil, code: apperr.CodeInvalidPayment},
		{name: "negative", tendered: money("-0.01"), code: apperr.CodeInvalidPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := service.ValidatePayment(total, tt.tendered, "USD")
			if tt.code != "" {
				assertCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.True(t, payment.AmountPaid.Equal(*tt.tendered))
			assertMoney(t, tt.change, payment.Change)
			assert.Equal(t, "USD", payment.Currency)
		})
	}
}

func TestValidatePayment_ShortfallDetails(t *testing.T) {
	_, err := service.ValidatePayment(decimal.RequireFromString("10.00"), money("5.00"), "USD")
	e := assertCode(t, err, apperr.CodeInsufficientPayment)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	shortfall, ok := e.Meta["shortfall"].(decimal.Decimal)
	require.True(t, ok)
	assertMoney(t, "5.00", shortfall)
}
