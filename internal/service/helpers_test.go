package service_test

import (
	"fmt"
	"sync"
	"testing"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/apperr"
	"go-inventory-pos/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type recordingNotifier struct {
	mu      sync.Mutex
	actions []string
}

func (n *recordingNotifier) Notify(msgType, action string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.actions = append(n.actions, msgType+"/"+action)
}

func (n *recordingNotifier) Actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.actions...)
}

type fixture struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	txRepo          repository.TransactionRepository
	activityRepo    repository.ActivityRepository
	incidentRepo    repository.IncidentRepository
	idempotencyRepo repository.IdempotencyRepository
	reconciler      *service.StockReconciler
	notifier        *recordingNotifier
	inventory       service.InventoryService
	history         service.HistoryService
	session         model.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:              db,
		productRepo:     repository.NewProductRepo(db),
		txRepo:          repository.NewTransactionRepo(db),
		activityRepo:    repository.NewActivityRepo(db),
		incidentRepo:    repository.NewIncidentRepo(db),
		idempotencyRepo: repository.NewIdempotencyRepo(db),
		notifier:        &recordingNotifier{},
		session: model.Session{
			UserID:   uuid.New(),
			Email:    "cashier@example.com",
			Username: "cashier",
			Role:     model.RoleUser,
		},
	}
	f.reconciler = service.NewStockReconciler(db, f.productRepo)
	f.inventory = service.NewInventoryService(f.productRepo, f.activityRepo, db, f.notifier, nil)
	f.history = service.NewHistoryService(f.txRepo, 200)
	return f
}

// checkout builds a checkout service around recorder (the real one when nil).
func (f *fixture) checkout(recorder service.TransactionRecorder) service.CheckoutService {
	if recorder == nil {
		recorder = service.NewTransactionRecorder(f.txRepo)
	}
	return service.NewCheckoutService(service.CheckoutDeps{
		Reconciler:      f.reconciler,
		Recorder:        recorder,
		TransactionRepo: f.txRepo,
		IdempotencyRepo: f.idempotencyRepo,
		IncidentRepo:    f.incidentRepo,
		ActivityRepo:    f.activityRepo,
		Notifier:        f.notifier,
		Currency:        "USD",
	})
}

func (f *fixture) seedProduct(t *testing.T, ownerID uuid.UUID, name string, qty int, price string, status model.ProductStatus) *model.Product {
	t.Helper()
	if status == "" {
		status = model.DeriveStatus("", qty)
	}
	p := &model.Product{
		OwnerID:     ownerID,
		Name:        name,
		Description: name + " description",
		Category:    model.CategoryFood,
		Quantity:    qty,
		Price:       decimal.RequireFromString(price),
		Status:      status,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) model.Product {
	t.Helper()
	var p model.Product
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return p
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Equal(t, expected, actual.StringFixed(2))
}

func assertCode(t *testing.T, err error, code string) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %T: %v", err, err)
	assert.Equal(t, code, e.Code)
	return e
}
