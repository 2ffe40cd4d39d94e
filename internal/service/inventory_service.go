package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/apperr"
	"go-inventory-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name            string           `json:"name" validate:"required,max=100"`
	Description     string           `json:"description" validate:"required,max=500"`
	Category        model.Category   `json:"category" validate:"required,oneof=FOOD BEVERAGE CLEANING PERSONAL_CARE SCHOOL_SUPPLIES OTHER"`
	Quantity        *int             `json:"quantity" validate:"required,gte=0"`
	Price           *decimal.Decimal `json:"price"`
	ProductImageURL *string          `json:"productImageUrl" validate:"omitempty,max=2048"`
}

type InventoryService interface {
	CreateProduct(ctx context.Context, session model.Session, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, session model.Session, id string, in ProductInput) (*model.Product, error)
	ArchiveProduct(ctx context.Context, session model.Session, id string) (*model.Product, error)
	RestoreProduct(ctx context.Context, session model.Session, id string) (*model.Product, error)
	GetProduct(ctx context.Context, session model.Session, id string) (*model.Product, error)
	ListProducts(ctx context.Context, session model.Session, status string) ([]model.Product, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	activityRepo repository.ActivityRepository
	db           *gorm.DB
	notifier     Notifier
	events       EventPublisher
}

func NewInventoryService(pRepo repository.ProductRepository, aRepo repository.ActivityRepository, db *gorm.DB, notifier Notifier, events EventPublisher) InventoryService {
	return &inventoryService{
		productRepo:  pRepo,
		activityRepo: aRepo,
		db:           db,
		notifier:     notifier,
		events:       events,
	}
}

func (in *ProductInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = model.Category(strings.ToUpper(strings.TrimSpace(string(in.Category))))
	if in.ProductImageURL != nil {
		url := strings.TrimSpace(*in.ProductImageURL)
		if url == "" {
			in.ProductImageURL = nil
		} else {
			in.ProductImageURL = &url
		}
	}

	if msg := validator.FirstError(in); msg != "" {
		return apperr.Validation(apperr.CodeInvalidInput, "validation failed: %s", msg)
	}
	if in.Price == nil {
		return apperr.Validation(apperr.CodeInvalidInput, "price is required")
	}
	if in.Price.IsNegative() {
		return apperr.Validation(apperr.CodeInvalidInput, "price must not be negative")
	}
	return nil
}

func parseProductID(id string) (uuid.UUID, error) {
	productID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, apperr.NotFound("product %s not found", id)
	}
	return productID, nil
}

func productLookupError(err error, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("product %s not found", id)
	}
	return apperr.Persistence(err, "failed to load product")
}

func (s *inventoryService) CreateProduct(ctx context.Context, session model.Session, in ProductInput) (*model.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	product := &model.Product{
		OwnerID:         session.UserID,
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		Quantity:        *in.Quantity,
		Price:           in.Price.Round(moneyPlaces),
		Status:          model.DeriveStatus("", *in.Quantity),
		ProductImageURL: in.ProductImageURL,
	}
	product.CreatedBy = session.Actor()
	product.UpdatedBy = session.Actor()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Create(ctx, product); err != nil {
			return err
		}
		return s.activityRepo.WithTx(tx).Create(ctx, newActivity(model.ActionAddProduct, session, product.ID))
	})
	if err != nil {
		return nil, apperr.Persistence(err, "failed to create product")
	}

	s.broadcast(session, "product_created", EventProductCreated, product)
	return product, nil
}

// mutate locks the owner's product, applies change and saves it with an
// activity record in the same transaction. A change returning false means
// there is nothing to write.
func (s *inventoryService) mutate(ctx context.Context, session model.Session, id string, action model.ActivityAction, change func(p *model.Product) (bool, error)) (*model.Product, bool, error) {
	productID, err := parseProductID(id)
	if err != nil {
		return nil, false, err
	}

	var product *model.Product
	var changed bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		existing, err := products.FindByIDForUpdate(ctx, productID, session.UserID)
		if err != nil {
			return productLookupError(err, productID)
		}
		product = existing

		changed, err = change(existing)
		if err != nil || !changed {
			return err
		}
		existing.UpdatedBy = session.Actor()
		if err := products.Save(ctx, existing); err != nil {
			return apperr.Persistence(err, "failed to save product")
		}
		if err := s.activityRepo.WithTx(tx).Create(ctx, newActivity(action, session, existing.ID)); err != nil {
			return apperr.Persistence(err, "failed to log activity")
		}
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, false, err
		}
		return nil, false, apperr.Persistence(err, "failed to update product")
	}
	return product, changed, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, session model.Session, id string, in ProductInput) (*model.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	product, _, err := s.mutate(ctx, session, id, model.ActionEditProduct, func(p *model.Product) (bool, error) {
		p.Name = in.Name
		p.Description = in.Description
		p.Category = in.Category
		p.Quantity = *in.Quantity
		p.Price = in.Price.Round(moneyPlaces)
		p.ProductImageURL = in.ProductImageURL
		p.Status = model.DeriveStatus(p.Status, p.Quantity)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(session, "product_updated", EventProductUpdated, product)
	return product, nil
}

// ArchiveProduct marks the product DISCONTINUED. Archiving twice is a no-op.
func (s *inventoryService) ArchiveProduct(ctx context.Context, session model.Session, id string) (*model.Product, error) {
	product, changed, err := s.mutate(ctx, session, id, model.ActionArchiveProduct, func(p *model.Product) (bool, error) {
		if p.Status == model.StatusDiscontinued {
			return false, nil
		}
		p.Status = model.StatusDiscontinued
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.broadcast(session, "product_archived", EventProductArchived, product)
	}
	return product, nil
}

// RestoreProduct puts a discontinued product back on sale with its status
// derived from the current quantity.
func (s *inventoryService) RestoreProduct(ctx context.Context, session model.Session, id string) (*model.Product, error) {
	product, _, err := s.mutate(ctx, session, id, model.ActionUnarchiveProduct, func(p *model.Product) (bool, error) {
		if p.Status != model.StatusDiscontinued {
			return false, apperr.Conflict(apperr.CodeNotArchived, "product %q is not archived", p.Name).
				With("productId", p.ID)
		}
		p.Status = model.RestoredStatus(p.Quantity)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(session, "product_restored", EventProductRestored, product)
	return product, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, session model.Session, id string) (*model.Product, error) {
	productID, err := parseProductID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForOwner(ctx, productID, session.UserID)
	if err != nil {
		return nil, productLookupError(err, productID)
	}
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, session model.Session, status string) ([]model.Product, error) {
	filter := model.ProductStatus(strings.ToUpper(strings.TrimSpace(status)))
	switch filter {
	case "", model.StatusInStock, model.StatusOutOfStock, model.StatusDiscontinued:
	default:
		return nil, apperr.Validation(apperr.CodeInvalidInput, "unknown status %q", status)
	}

	products, err := s.productRepo.FindByOwner(ctx, session.UserID, filter)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load products")
	}
	return products, nil
}

func (s *inventoryService) broadcast(session model.Session, action, routingKey string, product *model.Product) {
	event := ProductEvent{Product: *product, User: session.Username, At: time.Now().UTC()}
	notify(s.notifier, action, event)
	publish(s.events, routingKey, event)
}
