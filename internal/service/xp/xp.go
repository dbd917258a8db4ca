package xp

import (
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

const DefaultLedgerLimit = 20

type xpRepo interface {
	Levels(ctx context.Context) ([]models.LevelDefinition, error)
	AwardXP(ctx context.Context, entry models.XPLedgerEntry, levelFor func(total int) (int, int)) (models.XPSummary, bool, error)
	Summary(ctx context.Context, userID uuid.UUID) (*models.XPSummary, error)
	Ledger(ctx context.Context, userID uuid.UUID, limit int) ([]models.XPLedgerEntry, error)
}

type leaderboard interface {
	SetTotal(ctx context.Context, userID uuid.UUID, totalXP int) error
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Rank(ctx context.Context, userID uuid.UUID) (models.LeaderboardEntry, bool, error)
}

type XPService struct {
	log   logger.Log
	repo  xpRepo
	board leaderboard
}

// NewXPService builds the service; board may be nil when no leaderboard is configured.
func NewXPService(log logger.Log, repo xpRepo, board leaderboard) *XPService {
	return &XPService{
		log:   log.With("service", "xp"),
		repo:  repo,
		board: board,
	}
}

// LevelFor picks the highest level whose threshold is reached and the XP
// still missing for level+1 (0 when there is no such level).
func LevelFor(levels []models.LevelDefinition, total int) (level, toNext int) {
	sorted := make([]models.LevelDefinition, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LevelNumber < sorted[j].LevelNumber })

	for _, l := range sorted {
		if l.XPRequired <= total && l.LevelNumber > level {
			level = l.LevelNumber
		}
	}
	for _, l := range sorted {
		if l.LevelNumber == level+1 {
			toNext = l.XPRequired - total
			break
		}
	}
	if toNext < 0 {
		toNext = 0
	}
	return level, toNext
}

// Grant credits the lesson's reward, earned at now. Runs inside the caller's transaction when ctx carries one.
func (s *XPService) Grant(ctx context.Context, userID uuid.UUID, lesson models.Lesson, now time.Time) (models.XPSummary, bool, error) {
	levels, err := s.repo.Levels(ctx)
	if err != nil {
		return models.XPSummary{}, false, err
	}

	lessonID := lesson.ID
	entry := models.XPLedgerEntry{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      lesson.XPReward,
		SourceType:  models.XPSourceLesson,
		SourceID:    &lessonID,
		Description: fmt.Sprintf("Completed lesson: %s", lesson.LessonTitle),
		EarnedAt:    now.UTC(),
	}

	summary, awarded, err := s.repo.AwardXP(ctx, entry, func(total int) (int, int) {
		return LevelFor(levels, total)
	})
	if err != nil {
		return models.XPSummary{}, false, err
	}

	if awarded {
		s.log.Info("xp granted",
			"user_id", userID,
			"lesson_id", lesson.ID,
			"amount", lesson.XPReward,
			"total_xp", summary.TotalXP,
			"level", summary.CurrentLevel,
		)
	}
	return summary, awarded, nil
}

// PublishTotal mirrors the committed total onto the leaderboard.
func (s *XPService) PublishTotal(ctx context.Context, summary models.XPSummary) error {
	if s.board == nil {
		return nil
	}
	return s.board.SetTotal(ctx, summary.UserID, summary.TotalXP)
}

func (s *XPService) Summary(ctx context.Context, userID uuid.UUID) (*models.XPSummary, error) {
	return s.repo.Summary(ctx, userID)
}

func (s *XPService) Ledger(ctx context.Context, userID uuid.UUID, limit int) ([]models.XPLedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultLedgerLimit
	}
	return s.repo.Ledger(ctx, userID, limit)
}

func (s *XPService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if s.board == nil {
		return []models.LeaderboardEntry{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.board.Top(ctx, limit)
}

func (s *XPService) LeaderboardRank(ctx context.Context, userID uuid.UUID) (models.LeaderboardEntry, bool, error) {
	if s.board == nil {
		return models.LeaderboardEntry{}, false, nil
	}
	return s.board.Rank(ctx, userID)
}
