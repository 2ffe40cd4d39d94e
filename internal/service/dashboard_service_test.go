package service_test

import (
	"context"
	"testing"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, f.session.UserID, "A", 5, "10.00", "")
	f.seedProduct(t, f.session.UserID, "B", 0, "2.00", "")
	f.seedProduct(t, f.session.UserID, "C", 3, "1.00", model.StatusDiscontinued)
	f.seedProduct(t, uuid.New(), "Foreign", 100, "9.00", "")

	_, err := f.checkout(nil).Checkout(ctx, f.session, service.CheckoutRequest{
		Items:      cart(line(a, 2)),
		AmountPaid: money("20"),
	})
	require.NoError(t, err)

	dash := service.NewDashboardService(f.productRepo, f.txRepo, 10)
	summary, err := dash.GetSummary(ctx, f.session.UserID, 7)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.Inventory.TotalProducts)
	assert.Equal(t, int64(1), summary.Inventory.ByStatus[model.StatusInStock])
	assert.Equal(t, int64(1), summary.Inventory.ByStatus[model.StatusOutOfStock])
	assert.Equal(t, int64(1), summary.Inventory.ByStatus[model.StatusDiscontinued])
	assert.Equal(t, int64(2), summary.Inventory.LowStockCount)
	assertMoney(t, "30.00", summary.Inventory.TotalValuation)

	assert.Equal(t, int64(1), summary.Sales.Transactions)
	assert.Equal(t, int64(2), summary.Sales.UnitsSold)
	assertMoney(t, "20.00", summary.Sales.Revenue)

	require.Len(t, summary.DailySales, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), summary.DailySales[0].Date)
	assertMoney(t, "20.00", summary.DailySales[0].Revenue)
}

func TestDashboardService_EmptyStore(t *testing.T) {
	f := newFixture(t)
	dash := service.NewDashboardService(f.productRepo, f.txRepo, 10)

	summary, err := dash.GetSummary(context.Background(), f.session.UserID, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Inventory.TotalProducts)
	assertMoney(t, "0.00", summary.Inventory.TotalValuation)
	assert.Equal(t, int64(0), summary.Sales.Transactions)
	assertMoney(t, "0.00", summary.Sales.Revenue)
	assert.Empty(t, summary.DailySales)

	_, err = dash.GetSummary(context.Background(), f.session.UserID, 1000)
	assertCode(t, err, apperr.CodeInvalidInput)
}
