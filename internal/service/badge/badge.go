package badge

import (
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"
	"time"

	"github.com/google/uuid"
)

type badgeRepo interface {
	Badges(ctx context.Context) ([]models.Badge, error)
	Counters(ctx context.Context, userID uuid.UUID) (models.BadgeCounters, error)
	Award(ctx context.Context, userID, badgeID uuid.UUID, at time.Time) (bool, error)
	UserBadges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error)
}

type BadgeService struct {
	log  logger.Log
	repo badgeRepo
	now  func() time.Time
}

func NewBadgeService(log logger.Log, repo badgeRepo) *BadgeService {
	return &BadgeService{
		log:  log.With("service", "badge"),
		repo: repo,
		now:  time.Now,
	}
}

// Qualifying returns the rules whose counter has reached the threshold.
// Rules with an unknown criteria never qualify.
func Qualifying(rules []models.Badge, counters models.BadgeCounters) []models.Badge {
	var out []models.Badge
	for _, b := range rules {
		v, ok := counters.Value(b.Criteria)
		if ok && v >= b.Threshold {
			out = append(out, b)
		}
	}
	return out
}

// EvaluateAndAward grants every milestone the user now qualifies for and
// returns only the ones that were not held before.
func (s *BadgeService) EvaluateAndAward(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	rules, err := s.repo.Badges(ctx)
	if err != nil {
		return nil, err
	}
	counters, err := s.repo.Counters(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var awarded []models.Badge
	for _, b := range Qualifying(rules, counters) {
		isNew, err := s.repo.Award(ctx, userID, b.ID, now)
		if err != nil {
			return awarded, err
		}
		if isNew {
			awarded = append(awarded, b)
			s.log.Info("badge awarded", "user_id", userID, "badge", b.Code)
		}
	}
	return awarded, nil
}

func (s *BadgeService) UserBadges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error) {
	return s.repo.UserBadges(ctx, userID)
}
