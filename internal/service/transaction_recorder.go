package service

import (
	"context"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/apperr"

	"github.com/google/uuid"
)

// RecordInput is everything a receipt is made of.
type RecordInput struct {
	UserID         uuid.UUID
	IdempotencyKey *string
	Lines          []PricedLine
	Totals         Totals
	Payment        Payment
}

// TransactionRecorder writes the immutable receipt of a checkout.
type TransactionRecorder interface {
	Record(ctx context.Context, in RecordInput) (*model.Transaction, error)
}

type transactionRecorder struct {
	transactionRepo repository.TransactionRepository
	now             func() time.Time
}

func NewTransactionRecorder(transactionRepo repository.TransactionRepository) TransactionRecorder {
	return &transactionRecorder{transactionRepo: transactionRepo, now: time.Now}
}

func (r *transactionRecorder) Record(ctx context.Context, in RecordInput) (*model.Transaction, error) {
	tx := &model.Transaction{
		UserID:         in.UserID,
		IdempotencyKey: in.IdempotencyKey,
		Type:           model.TxCheckout,
		TotalQuantity:  in.Totals.Quantity,
		TotalAmount:    in.Totals.Amount,
		AmountPaid:     in.Payment.AmountPaid,
		Change:         in.Payment.Change,
		Currency:       in.Payment.Currency,
		CreatedAt:      r.now().UTC(),
		Lines:          make([]model.TransactionLine, 0, len(in.Lines)),
	}
	for i, l := range in.Lines {
		tx.Lines = append(tx.Lines, model.TransactionLine{
			Position:  i,
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		})
	}

	if err := r.transactionRepo.Create(ctx, tx); err != nil {
		return nil, apperr.Persistence(err, "failed to record transaction")
	}
	return tx, nil
}
