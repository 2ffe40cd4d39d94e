package service

import (
	"context"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/apperr"

	"github.com/google/uuid"
)

const maxActivityRows = 200

type ActivityService interface {
	Recent(ctx context.Context, limit int) ([]model.Activity, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
}

func NewActivityService(activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

// Recent lists the audit trail newest first. Limits outside (0, 200] fall back to 200.
func (s *activityService) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > maxActivityRows {
		limit = maxActivityRows
	}
	activities, err := s.activityRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load recent activity")
	}
	return activities, nil
}

func newActivity(action model.ActivityAction, session model.Session, subject uuid.UUID) *model.Activity {
	return &model.Activity{
		Action:    action,
		UserID:    session.UserID,
		Username:  session.Username,
		SubjectID: &subject,
	}
}
