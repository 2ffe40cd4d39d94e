package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/apperr"
	"go-inventory-pos/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IncidentService lets operators work through checkouts that ended Inconsistent.
type IncidentService interface {
	List(ctx context.Context, includeResolved bool) ([]model.CheckoutIncident, error)
	Resolve(ctx context.Context, id, resolvedBy, note string) (*model.CheckoutIncident, error)
	ReportOpen(ctx context.Context) (int64, error)
}

type incidentService struct {
	incidentRepo repository.IncidentRepository
	now          func() time.Time
}

func NewIncidentService(incidentRepo repository.IncidentRepository) IncidentService {
	return &incidentService{incidentRepo: incidentRepo, now: time.Now}
}

func (s *incidentService) List(ctx context.Context, includeResolved bool) ([]model.CheckoutIncident, error) {
	incidents, err := s.incidentRepo.FindAll(ctx, includeResolved)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load incidents")
	}
	return incidents, nil
}

func (s *incidentService) Resolve(ctx context.Context, id, resolvedBy, note string) (*model.CheckoutIncident, error) {
	incidentID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, apperr.NotFound("incident %s not found", id)
	}

	ok, err := s.incidentRepo.Resolve(ctx, incidentID, resolvedBy, strings.TrimSpace(note), s.now().UTC())
	if err != nil {
		return nil, apperr.Persistence(err, "failed to resolve incident")
	}

	incident, err := s.incidentRepo.FindByID(ctx, incidentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("incident %s not found", id)
		}
		return nil, apperr.Persistence(err, "failed to load incident")
	}
	if !ok {
		logger.Info("incident %s was already resolved by %s", incident.ID, incident.ResolvedBy)
	}
	return incident, nil
}

// ReportOpen logs how many incidents still wait for an operator.
func (s *incidentService) ReportOpen(ctx context.Context) (int64, error) {
	count, err := s.incidentRepo.CountOpen(ctx)
	if err != nil {
		return 0, apperr.Persistence(err, "failed to count incidents")
	}
	if count > 0 {
		logger.Warn("%d checkout incident(s) need manual reconciliation", count)
	}
	return count, nil
}
