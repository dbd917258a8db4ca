package activity

import (
	"LearnTrack/internal/app_errors"
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"

	"github.com/google/uuid"
)

type activityRepo interface {
	Index(ctx context.Context, event models.ActivityEvent) error
	ByUser(ctx context.Context, userID uuid.UUID, size int) ([]models.ActivityEvent, error)
}

type ActivityService struct {
	log  logger.Log
	repo activityRepo
}

// NewActivityService builds the service; repo may be nil when search is disabled.
func NewActivityService(log logger.Log, repo activityRepo) *ActivityService {
	return &ActivityService{log: log.With("service", "activity"), repo: repo}
}

func (s *ActivityService) Log(ctx context.Context, event models.ActivityEvent) error {
	if s.repo == nil {
		return nil
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return s.repo.Index(ctx, event)
}

func (s *ActivityService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ActivityEvent, error) {
	if s.repo == nil {
		return nil, app_errors.ErrStorageDisabled
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ByUser(ctx, userID, limit)
}
