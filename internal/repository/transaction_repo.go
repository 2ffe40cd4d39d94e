package repository

import (
	"context"
	"time"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Create(ctx context.Context, transaction *model.Transaction) error
	FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*model.Transaction, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Transaction, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Transaction, error)
	GetSalesSummary(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (*SalesSummary, error)
	GetDailySales(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]DailySales, error)
}

type SalesSummary struct {
	Transactions int64           `json:"transactions"`
	UnitsSold    int64           `json:"unitsSold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailySales is one point of the sales chart.
type DailySales struct {
	Date      string          `json:"date"`
	UnitsSold int64           `json:"unitsSold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

// Create inserts the receipt and its lines in one statement batch.
func (r *transactionRepo) Create(ctx context.Context, transaction *model.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *transactionRepo) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		First(&transaction, "user_id = ? AND idempotency_key = ?", userID, key).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindByUser returns the user's receipts newest first.
func (r *transactionRepo) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		First(&transaction, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) GetSalesSummary(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	var revenue decimal.NullDecimal

	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COUNT(*), COALESCE(SUM(total_quantity), 0), SUM(total_amount)").
		Where("user_id = ? AND type = ? AND created_at BETWEEN ? AND ?", userID, model.TxCheckout, startDate, endDate).
		Row().Scan(&summary.Transactions, &summary.UnitsSold, &revenue)
	if err != nil {
		return nil, err
	}
	summary.Revenue = revenue.Decimal.Round(2)
	return &summary, nil
}

func (r *transactionRepo) GetDailySales(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]DailySales, error) {
	results := []DailySales{}

	rows, err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(total_quantity), 0) as units_sold,
			SUM(total_amount) as revenue
		`).
		Where("user_id = ? AND type = ? AND created_at BETWEEN ? AND ?", userID, model.TxCheckout, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailySales
		var revenue decimal.NullDecimal
		if err := rows.Scan(&data.Date, &data.UnitsSold, &revenue); err != nil {
			return nil, err
		}
		// postgres hands back a full timestamp for DATE()
		if len(data.Date) > 10 {
			data.Date = data.Date[:10]
		}
		data.Revenue = revenue.Decimal.Round(2)
		results = append(results, data)
	}

	return results, rows.Err()
}
