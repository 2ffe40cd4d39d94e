package service

import (
	"context"
	"errors"

	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryService interface {
	List(ctx context.Context, userID uuid.UUID) ([]Receipt, error)
	Get(ctx context.Context, userID uuid.UUID, id string) (*Receipt, error)
}

type historyService struct {
	transactionRepo repository.TransactionRepository
	limit           int
}

// NewHistoryService caps every listing at limit receipts (at most 200).
func NewHistoryService(transactionRepo repository.TransactionRepository, limit int) HistoryService {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	return &historyService{transactionRepo: transactionRepo, limit: limit}
}

func (s *historyService) List(ctx context.Context, userID uuid.UUID) ([]Receipt, error) {
	transactions, err := s.transactionRepo.FindByUser(ctx, userID, s.limit)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load history")
	}
	receipts := make([]Receipt, 0, len(transactions))
	for i := range transactions {
		receipts = append(receipts, ReceiptFromTransaction(&transactions[i]))
	}
	return receipts, nil
}

func (s *historyService) Get(ctx context.Context, userID uuid.UUID, id string) (*Receipt, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("transaction %s not found", id)
	}
	tx, err := s.transactionRepo.FindByIDForUser(ctx, txID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction %s not found", id)
		}
		return nil, apperr.Persistence(err, "failed to load transaction")
	}
	receipt := ReceiptFromTransaction(tx)
	return &receipt, nil
}
