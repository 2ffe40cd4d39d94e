package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/apperr"
	"go-inventory-pos/pkg/logger"
	"go-inventory-pos/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutState is a step of the checkout workflow.
type CheckoutState string

const (
	StateValidating   CheckoutState = "Validating"
	StateReconciling  CheckoutState = "Reconciling"
	StateComputing    CheckoutState = "Computing"
	StatePaymentCheck CheckoutState = "PaymentCheck"
	StateCommitting   CheckoutState = "Committing"
	StateRecording    CheckoutState = "Recording"
	StateComplete     CheckoutState = "Complete"
	StateRejected     CheckoutState = "Rejected"
	StateInconsistent CheckoutState = "Inconsistent"
)

const maxIdempotencyKeyLen = 100

type CheckoutRequest struct {
	Items          []CartLine       `json:"items"`
	AmountPaid     *decimal.Decimal `json:"amountPaid"`
	IdempotencyKey string           `json:"-"`

	// rawAmountPaid keeps an amountPaid that is not a decimal number.
	rawAmountPaid string
}

// UnmarshalJSON decodes amountPaid leniently. A value that is not a number is
// kept and rejected at PaymentCheck as InvalidPayment.
func (r *CheckoutRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		Items      []CartLine      `json:"items"`
		AmountPaid json.RawMessage `json:"amountPaid"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = CheckoutRequest{Items: wire.Items, IdempotencyKey: r.IdempotencyKey}

	raw := bytes.TrimSpace(wire.AmountPaid)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var paid decimal.Decimal
	if err := paid.UnmarshalJSON(raw); err != nil {
		r.rawAmountPaid = string(raw)
		return nil
	}
	r.AmountPaid = &paid
	return nil
}

type CheckoutService interface {
	Checkout(ctx context.Context, session model.Session, req CheckoutRequest) (*Receipt, error)
}

// CheckoutDeps wires the checkout workflow. Notifier, Events and Metrics may be nil.
type CheckoutDeps struct {
	Reconciler      *StockReconciler
	Recorder        TransactionRecorder
	TransactionRepo repository.TransactionRepository
	IdempotencyRepo repository.IdempotencyRepository
	IncidentRepo    repository.IncidentRepository
	ActivityRepo    repository.ActivityRepository
	Notifier        Notifier
	Events          EventPublisher
	Metrics         *metrics.CheckoutMetrics
	Currency        string
}

type checkoutService struct {
	CheckoutDeps
}

func NewCheckoutService(deps CheckoutDeps) CheckoutService {
	if deps.Currency == "" {
		deps.Currency = "USD"
	}
	return &checkoutService{deps}
}

// CheckoutCompleted is the body of the checkout.completed event.
type CheckoutCompleted struct {
	Receipt  Receipt   `json:"receipt"`
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
}

// Checkout runs Validating, Reconciling, Computing, PaymentCheck, Committing
// and Recording in order. Payment is settled before stock is touched, so every
// failure up to and including Committing leaves the store unchanged. Only a
// failed Recording ends Inconsistent.
func (s *checkoutService) Checkout(ctx context.Context, session model.Session, req CheckoutRequest) (receipt *Receipt, err error) {
	started := time.Now()
	state := StateValidating
	defer func() {
		code := ""
		if e, ok := apperr.As(err); ok {
			code = e.Code
		} else if err != nil {
			code = apperr.CodePersistence
		}
		s.Metrics.Observe(string(state), code, started)
	}()

	// Validating
	key, err := normalizeIdempotencyKey(req.IdempotencyKey)
	if err != nil {
		state = StateRejected
		return nil, err
	}
	if _, err = MergeLines(req.Items); err != nil {
		state = StateRejected
		return nil, err
	}
	if key != nil {
		replay, err := s.replay(ctx, session.UserID, *key)
		if err != nil || replay != nil {
			state = StateComplete
			if err != nil {
				state = stateForError(err)
			}
			return replay, err
		}
	}

	state = StateReconciling
	plan, err := s.Reconciler.Plan(ctx, session.UserID, req.Items)
	if err != nil {
		state = StateRejected
		return nil, err
	}

	state = StateComputing
	lines, totals := PriceLines(plan)

	state = StatePaymentCheck
	if req.rawAmountPaid != "" {
		state = StateRejected
		return nil, apperr.Validation(apperr.CodeInvalidPayment, "amountPaid must be a number").
			With("amountPaid", req.rawAmountPaid)
	}
	payment, err := ValidatePayment(totals.Amount, req.AmountPaid, s.Currency)
	if err != nil {
		state = StateRejected
		return nil, err
	}

	if key != nil {
		replay, err := s.reserve(ctx, session.UserID, *key)
		if err != nil || replay != nil {
			state = StateComplete
			if err != nil {
				state = stateForError(err)
			}
			return replay, err
		}
	}

	state = StateCommitting
	products, err := s.Reconciler.Commit(ctx, session.UserID, plan, session.Actor())
	if err != nil {
		state = StateRejected
		if key != nil {
			s.release(context.WithoutCancel(ctx), session.UserID, *key)
		}
		return nil, err
	}

	// Stock is committed. Finish the bookkeeping even if the caller has gone away.
	ctx = context.WithoutCancel(ctx)

	state = StateRecording
	tx, err := s.Recorder.Record(ctx, RecordInput{
		UserID:         session.UserID,
		IdempotencyKey: key,
		Lines:          lines,
		Totals:         totals,
		Payment:        payment,
	})
	if err != nil {
		state = StateInconsistent
		return nil, s.inconsistent(ctx, session, key, plan, err)
	}

	state = StateComplete
	out := ReceiptFromTransaction(tx)
	out.Products = stockLevels(products)
	s.afterComplete(ctx, session, out, products)
	return &out, nil
}

func normalizeIdempotencyKey(raw string) (*string, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return nil, nil
	}
	if len(key) > maxIdempotencyKeyLen {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "Idempotency-Key must be at most %d characters", maxIdempotencyKeyLen)
	}
	return &key, nil
}

// replay answers a retried request. It returns the stored receipt when the key
// already completed, or the original Inconsistent error when it produced an
// incident that is still open.
func (s *checkoutService) replay(ctx context.Context, userID uuid.UUID, key string) (*Receipt, error) {
	tx, err := s.TransactionRepo.FindByIdempotencyKey(ctx, userID, key)
	if err == nil {
		out := ReceiptFromTransaction(tx)
		out.Replayed = true
		return &out, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence(err, "failed to look up idempotency key")
	}

	incident, err := s.IncidentRepo.FindOpenByIdempotencyKey(ctx, userID, key)
	if err == nil {
		return nil, inconsistentError(incident.ID, incident.Decrements, errors.New(incident.Reason))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence(err, "failed to look up idempotency key")
	}
	return nil, nil
}

// reserve claims the key before stock is committed. When another request holds
// it, that request's outcome is replayed if it has one.
func (s *checkoutService) reserve(ctx context.Context, userID uuid.UUID, key string) (*Receipt, error) {
	reserved, err := s.IdempotencyRepo.Reserve(ctx, userID, key)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to reserve idempotency key")
	}
	if reserved {
		return nil, nil
	}
	replay, err := s.replay(ctx, userID, key)
	if err != nil || replay != nil {
		return replay, err
	}
	return nil, apperr.Conflict(apperr.CodeCheckoutInProgress,
		"a checkout with this Idempotency-Key is in progress or did not finish; retry later or use a new key")
}

func (s *checkoutService) release(ctx context.Context, userID uuid.UUID, key string) {
	if err := s.IdempotencyRepo.Release(ctx, userID, key); err != nil {
		logger.Error("failed to release idempotency key for user %s", err, userID)
	}
}

func stateForError(err error) CheckoutState {
	if apperr.KindOf(err) == apperr.KindInconsistent {
		return StateInconsistent
	}
	return StateRejected
}

func (s *checkoutService) inconsistent(ctx context.Context, session model.Session, key *string, plan []PlannedLine, cause error) error {
	decrements := make([]model.StockDecrement, 0, len(plan))
	for _, p := range plan {
		decrements = append(decrements, model.StockDecrement{ProductID: p.ProductID, Name: p.Name, Quantity: p.Quantity})
	}

	incident := &model.CheckoutIncident{
		UserID:         session.UserID,
		IdempotencyKey: key,
		Decrements:     decrements,
		Reason:         cause.Error(),
	}
	incident.CreatedBy = session.Actor()
	incident.UpdatedBy = session.Actor()

	logger.Error("checkout by %s committed stock but no receipt was recorded", cause, session.Username)
	if err := s.IncidentRepo.Create(ctx, incident); err != nil {
		logger.Error("failed to persist checkout incident for %s (decrements %+v)", err, session.Username, decrements)
		incident.ID = uuid.Nil
	}

	publish(s.Events, EventCheckoutInconsistent, incident)
	return inconsistentError(incident.ID, decrements, cause)
}

func inconsistentError(incidentID uuid.UUID, decrements []model.StockDecrement, cause error) error {
	e := apperr.Wrap(apperr.KindInconsistent, apperr.CodeInconsistent, cause,
		"stock was updated but the receipt could not be recorded").
		With("decrements", decrements)
	if incidentID != uuid.Nil {
		e = e.With("incidentId", incidentID)
	}
	return e
}

func (s *checkoutService) afterComplete(ctx context.Context, session model.Session, receipt Receipt, products []model.Product) {
	if err := s.ActivityRepo.Create(ctx, newActivity(model.ActionCheckout, session, receipt.TransactionID)); err != nil {
		logger.Error("failed to log checkout activity", err)
	}
	for _, p := range products {
		notify(s.Notifier, "checkout", ProductEvent{Product: p, User: session.Username, At: receipt.CreatedAt})
	}
	publish(s.Events, EventCheckoutCompleted, CheckoutCompleted{
		Receipt:  receipt,
		UserID:   session.UserID,
		Username: session.Username,
	})
}
