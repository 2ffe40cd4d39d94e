package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation(CodeEmptyCart, "cart is empty"), http.StatusBadRequest},
		{Validation(CodeInvalidQuantity, "bad"), http.StatusBadRequest},
		{Validation(CodeInvalidPayment, "bad"), http.StatusBadRequest},
		{Conflict(CodeInsufficientPayment, "short"), http.StatusBadRequest},
		{NotFound("product %s not found", "x"), http.StatusNotFound},
		{Conflict(CodeInsufficientStock, "no stock"), http.StatusConflict},
		{Conflict(CodeProductUnavailable, "discontinued"), http.StatusConflict},
		{Conflict(CodeCheckoutInProgress, "in flight"), http.StatusConflict},
		{Persistence(errors.New("disk"), "write failed"), http.StatusInternalServerError},
		{New(KindInconsistent, CodeInconsistent, "half done"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("checkout: %w", Conflict(CodeInsufficientStock, "only 2 left"))

	assert.ErrorIs(t, err, New(KindConflict, CodeInsufficientStock, ""))
	assert.NotErrorIs(t, err, New(KindConflict, CodeProductUnavailable, ""))

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindConflict, e.Kind)
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence(cause, "could not save receipt")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, Internal(err))
	assert.False(t, Internal(Validation(CodeEmptyCart, "empty")))
}

func TestWithCopiesMeta(t *testing.T) {
	base := NotFound("missing")
	withID := base.With("productId", "abc")

	assert.Nil(t, base.Meta)
	assert.Equal(t, "abc", withID.Meta["productId"])
}
