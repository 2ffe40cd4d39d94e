package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxLineQuantity caps the units of one product in a single cart, after merging.
const MaxLineQuantity = 1_000_000

// CartLine is one requested (product, quantity) pair. It lives only for the request.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`

	// rawQuantity keeps a quantity that did not decode as an integer.
	rawQuantity string
}

// UnmarshalJSON accepts any JSON value for quantity so that a fractional or
// non-numeric quantity is rejected by MergeLines as InvalidQuantity instead of
// failing the whole body.
func (l *CartLine) UnmarshalJSON(data []byte) error {
	var wire struct {
		ProductID string          `json:"productId"`
		Quantity  json.RawMessage `json:"quantity"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*l = CartLine{ProductID: wire.ProductID}

	raw := string(bytes.TrimSpace(wire.Quantity))
	if raw == "" || raw == "null" {
		return nil
	}
	qty, err := strconv.ParseInt(raw, 10, strconv.IntSize)
	if err != nil {
		l.rawQuantity = raw
		return nil
	}
	l.Quantity = int(qty)
	return nil
}

// PlannedLine is a cart line checked against the product store, carrying the
// name and price snapshot taken while checking.
type PlannedLine struct {
	ProductID   uuid.UUID
	Name        string
	UnitPrice   decimal.Decimal
	Quantity    int
	Available   int
	NewQuantity int
	NewStatus   model.ProductStatus
}

// StockReconciler validates carts against stock and commits the decrements.
type StockReconciler struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
}

func NewStockReconciler(db *gorm.DB, productRepo repository.ProductRepository) *StockReconciler {
	return &StockReconciler{db: db, productRepo: productRepo}
}

// MergeLines checks every raw line and folds repeated products into one line,
// keeping the order in which each product first appeared.
func MergeLines(lines []CartLine) ([]CartLine, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation(apperr.CodeEmptyCart, "cart is empty")
	}

	merged := make([]CartLine, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for i, line := range lines {
		if line.rawQuantity != "" {
			return nil, invalidQuantity(i, line.ProductID, line.rawQuantity, "quantity must be a positive integer")
		}
		if line.Quantity <= 0 {
			return nil, invalidQuantity(i, line.ProductID, line.Quantity, "quantity must be a positive integer")
		}
		if line.Quantity > MaxLineQuantity {
			return nil, invalidQuantity(i, line.ProductID, line.Quantity, "quantity must be at most %d", MaxLineQuantity)
		}
		raw := strings.TrimSpace(line.ProductID)
		if raw == "" {
			return nil, apperr.Validation(apperr.CodeInvalidInput, "productId is required").With("line", i)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			// an id that cannot exist is reported like any unknown product
			return nil, apperr.NotFound("product %s not found", raw).With("productId", raw)
		}
		if at, ok := index[id]; ok {
			// both operands are within the cap, so the comparison cannot overflow
			if merged[at].Quantity > MaxLineQuantity-line.Quantity {
				return nil, invalidQuantity(i, line.ProductID, merged[at].Quantity+line.Quantity,
					"total quantity of one product must be at most %d", MaxLineQuantity)
			}
			merged[at].Quantity += line.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, CartLine{ProductID: id.String(), Quantity: line.Quantity})
	}
	return merged, nil
}

func invalidQuantity(line int, productID string, quantity any, format string, args ...any) error {
	return apperr.Validation(apperr.CodeInvalidQuantity, format, args...).
		With("line", line).
		With("productId", productID).
		With("quantity", quantity)
}

// Plan reads every product in the cart and fails on the first line that
// cannot be fulfilled. It writes nothing.
func (r *StockReconciler) Plan(ctx context.Context, ownerID uuid.UUID, lines []CartLine) ([]PlannedLine, error) {
	merged, err := MergeLines(lines)
	if err != nil {
		return nil, err
	}

	plan := make([]PlannedLine, 0, len(merged))
	for _, line := range merged {
		id := uuid.MustParse(line.ProductID)
		product, err := r.productRepo.FindByIDForOwner(ctx, id, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("product %s not found", id).With("productId", id)
			}
			return nil, apperr.Persistence(err, "failed to load product")
		}
		if err := checkLine(product, line.Quantity); err != nil {
			return nil, err
		}

		newQty := product.Quantity - line.Quantity
		plan = append(plan, PlannedLine{
			ProductID:   product.ID,
			Name:        product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			Available:   product.Quantity,
			NewQuantity: newQty,
			NewStatus:   model.DeriveStatus(product.Status, newQty),
		})
	}
	return plan, nil
}

func checkLine(product *model.Product, qty int) error {
	if !product.Sellable() {
		return apperr.Conflict(apperr.CodeProductUnavailable, "product %q is discontinued", product.Name).
			With("productId", product.ID)
	}
	if qty > product.Quantity {
		return apperr.Conflict(apperr.CodeInsufficientStock, "only %d of %q left, %d requested", product.Quantity, product.Name, qty).
			With("productId", product.ID).
			With("requested", qty).
			With("available", product.Quantity)
	}
	return nil
}

// Commit applies the plan inside one database transaction. Each product is
// decremented by a conditional UPDATE, so a concurrent checkout that drained
// the stock after Plan makes the condition fail and the whole cart rolls back.
// The returned products reflect the committed state.
func (r *StockReconciler) Commit(ctx context.Context, ownerID uuid.UUID, plan []PlannedLine, actor string) ([]model.Product, error) {
	// fixed lock order keeps two overlapping carts from deadlocking
	ordered := make([]PlannedLine, len(plan))
	copy(ordered, plan)
	sort.Slice(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i].ProductID[:], ordered[j].ProductID[:]) < 0
	})

	updated := make(map[uuid.UUID]model.Product, len(plan))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := r.productRepo.WithTx(tx)
		for _, line := range ordered {
			ok, err := products.DecrementStock(ctx, line.ProductID, ownerID, line.Quantity, actor)
			if err != nil {
				return apperr.Persistence(err, "failed to update stock")
			}
			current, err := products.FindByIDForOwner(ctx, line.ProductID, ownerID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("product %s not found", line.ProductID).With("productId", line.ProductID)
				}
				return apperr.Persistence(err, "failed to reload product")
			}
			if !ok {
				if err := checkLine(current, line.Quantity); err != nil {
					return err
				}
				return apperr.Conflict(apperr.CodeInsufficientStock, "stock of %q changed during checkout", current.Name).
					With("productId", current.ID)
			}
			updated[current.ID] = *current
		}
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, apperr.Persistence(err, "failed to commit stock")
	}

	result := make([]model.Product, 0, len(plan))
	for _, line := range plan {
		result = append(result, updated[line.ProductID])
	}
	return result, nil
}
