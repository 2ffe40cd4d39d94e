package service_test

import (
	"context"
	"testing"

	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_NewestFirstAndCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, f.session.UserID, "A", 10, "1.00", "")
	checkout := f.checkout(nil)

	var ids []uuid.UUID
	for i := 1; i <= 3; i++ {
		r, err := checkout.Checkout(ctx, f.session, service.CheckoutRequest{Items: cart(line(a, i)), AmountPaid: money("10")})
		require.NoError(t, err)
		ids = append(ids, r.TransactionID)
	}

	history, err := f.history.List(ctx, f.session.UserID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, ids[2], history[0].TransactionID)
	assert.Equal(t, ids[0], history[2].TransactionID)

	capped, err := service.NewHistoryService(f.txRepo, 2).List(ctx, f.session.UserID)
	require.NoError(t, err)
	assert.Len(t, capped, 2)

	other, err := f.history.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestHistoryService_GetIsOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, f.session.UserID, "A", 10, "1.00", "")
	receipt, err := f.checkout(nil).Checkout(ctx, f.session, service.CheckoutRequest{Items: cart(line(a, 1)), AmountPaid: money("1")})
	require.NoError(t, err)

	got, err := f.history.Get(ctx, f.session.UserID, receipt.TransactionID.String())
	require.NoError(t, err)
	assert.Equal(t, receipt.TransactionID, got.TransactionID)

	_, err = f.history.Get(ctx, uuid.New(), receipt.TransactionID.String())
	assertCode(t, err, apperr.CodeNotFound)
	_, err = f.history.Get(ctx, f.session.UserID, "nope")
	assertCode(t, err, apperr.CodeNotFound)
}
