package service

import (
	"context"
	"time"

	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/apperr"

	"github.com/google/uuid"
)

const maxDashboardDays = 365

type DashboardSummary struct {
	Inventory  *repository.InventoryStats `json:"inventory"`
	Sales      *repository.SalesSummary   `json:"sales"`
	DailySales []repository.DailySales    `json:"dailySales"`
	Days       int                        `json:"days"`
	From       time.Time                  `json:"from"`
	To         time.Time                  `json:"to"`
}

type DashboardService interface {
	GetSummary(ctx context.Context, userID uuid.UUID, days int) (*DashboardSummary, error)
}

type dashboardService struct {
	productRepo       repository.ProductRepository
	txRepo            repository.TransactionRepository
	lowStockThreshold int
	now               func() time.Time
}

func NewDashboardService(productRepo repository.ProductRepository, txRepo repository.TransactionRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{
		productRepo:       productRepo,
		txRepo:            txRepo,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *dashboardService) GetSummary(ctx context.Context, userID uuid.UUID, days int) (*DashboardSummary, error) {
	if days <= 0 || days > maxDashboardDays {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "days must be between 1 and %d", maxDashboardDays)
	}

	endDate := s.now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	inventory, err := s.productRepo.GetInventoryStats(ctx, userID, s.lowStockThreshold)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load inventory stats")
	}
	sales, err := s.txRepo.GetSalesSummary(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load sales summary")
	}
	daily, err := s.txRepo.GetDailySales(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load daily sales")
	}

	return &DashboardSummary{
		Inventory:  inventory,
		Sales:      sales,
		DailySales: daily,
		Days:       days,
		From:       startDate,
		To:         endDate,
	}, nil
}
