package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindByOwner(ctx context.Context, ownerID uuid.UUID, status model.ProductStatus) ([]model.Product, error)
	FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Product, error)
	FindByIDForUpdate(ctx context.Context, id, ownerID uuid.UUID) (*model.Product, error)
	Save(ctx context.Context, product *model.Product) error
	DecrementStock(ctx context.Context, id, ownerID uuid.UUID, qty int, updatedBy string) (bool, error)
	GetInventoryStats(ctx context.Context, ownerID uuid.UUID, lowStockThreshold int) (*InventoryStats, error)
}

// InventoryStats is the stock half of the dashboard summary.
type InventoryStats struct {
	TotalProducts  int64                         `json:"totalProducts"`
	ByStatus       map[model.ProductStatus]int64 `json:"byStatus"`
	LowStockCount  int64                         `json:"lowStockCount"`
	TotalValuation decimal.Decimal               `json:"totalValuation"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByOwner lists the owner's products, optionally filtered by status, most recently updated first.
func (r *productRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, status model.ProductStatus) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("updated_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the row for the rest of the surrounding transaction.
func (r *productRepo) FindByIDForUpdate(ctx context.Context, id, ownerID uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Save(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// DecrementStock removes qty units in a single conditional UPDATE. It reports
// false when the row is missing, foreign, discontinued or short on stock, or
// when qty is not positive, in which case nothing was written. Both SET
// expressions read the pre-update row.
func (r *productRepo) DecrementStock(ctx context.Context, id, ownerID uuid.UUID, qty int, updatedBy string) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND owner_id = ? AND status <> ? AND quantity >= ?", id, ownerID, model.StatusDiscontinued, qty).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"status":     gorm.Expr("CASE WHEN quantity - ? <= 0 THEN ? ELSE ? END", qty, model.StatusOutOfStock, model.StatusInStock),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) GetInventoryStats(ctx context.Context, ownerID uuid.UUID, lowStockThreshold int) (*InventoryStats, error) {
	stats := InventoryStats{ByStatus: map[model.ProductStatus]int64{
		model.StatusInStock:      0,
		model.StatusOutOfStock:   0,
		model.StatusDiscontinued: 0,
	}}
	db := r.db.WithContext(ctx)

	type statusCount struct {
		Status model.ProductStatus
		Total  int64
	}
	var counts []statusCount
	if err := db.Model(&model.Product{}).
		Select("status, COUNT(*) AS total").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Total
		stats.TotalProducts += c.Total
	}

	if err := db.Model(&model.Product{}).
		Where("owner_id = ? AND status <> ? AND quantity < ?", ownerID, model.StatusDiscontinued, lowStockThreshold).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	var valuation decimal.NullDecimal
	if err := db.Model(&model.Product{}).
		Select("SUM(quantity * price)").
		Where("owner_id = ? AND status <> ?", ownerID, model.StatusDiscontinued).
		Row().Scan(&valuation); err != nil {
		return nil, err
	}
	stats.TotalValuation = valuation.Decimal.Round(2)

	return &stats, nil
}
