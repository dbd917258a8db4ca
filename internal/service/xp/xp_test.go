package xp

import (
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var levels = []models.LevelDefinition{
	{LevelNumber: 1, XPRequired: 0, LevelName: "Newcomer"},
	{LevelNumber: 2, XPRequired: 100, LevelName: "Apprentice"},
	{LevelNumber: 3, XPRequired: 250, LevelName: "Learner"},
	{LevelNumber: 4, XPRequired: 500, LevelName: "Scholar"},
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		total      int
		wantLevel  int
		wantToNext int
	}{
		{0, 1, 100},
		{50, 1, 50},
		{99, 1, 1},
		{100, 2, 150},
		{249, 2, 1},
		{250, 3, 250},
		{500, 4, 0},
		{10000, 4, 0},
	}

	for _, tt := range tests {
		level, toNext := LevelFor(levels, tt.total)
		assert.Equal(t, tt.wantLevel, level, "level for %d", tt.total)
		assert.Equal(t, tt.wantToNext, toNext, "to next for %d", tt.total)
	}
}

func TestLevelForUnsortedAndEmpty(t *testing.T) {
	shuffled := []models.LevelDefinition{levels[2], levels[0], levels[3], levels[1]}
	level, toNext := LevelFor(shuffled, 120)
	assert.Equal(t, 2, level)
	assert.Equal(t, 130, toNext)

	level, toNext = LevelFor(nil, 500)
	assert.Equal(t, 0, level)
	assert.Equal(t, 0, toNext)
}

func TestLevelForIsHighestReachedLevel(t *testing.T) {
	for total := 0; total <= 600; total += 7 {
		level, _ := LevelFor(levels, total)
		for _, l := range levels {
			if l.XPRequired <= total {
				assert.GreaterOrEqual(t, level, l.LevelNumber, "total %d", total)
			} else {
				assert.Less(t, level, l.LevelNumber, "total %d", total)
			}
		}
	}
}

type memRepo struct {
	ledger  []models.XPLedgerEntry
	summary map[uuid.UUID]models.XPSummary
	failOn  bool
}

func newMemRepo() *memRepo {
	return &memRepo{summary: map[uuid.UUID]models.XPSummary{}}
}

func (m *memRepo) Levels(context.Context) ([]models.LevelDefinition, error) {
	return levels, nil
}

func (m *memRepo) AwardXP(_ context.Context, e models.XPLedgerEntry, levelFor func(int) (int, int)) (models.XPSummary, bool, error) {
	if m.failOn {
		return models.XPSummary{}, false, errors.New("db down")
	}
	for _, existing := range m.ledger {
		if existing.UserID == e.UserID && existing.SourceType == e.SourceType && *existing.SourceID == *e.SourceID {
			return m.summary[e.UserID], false, nil
		}
	}
	m.ledger = append(m.ledger, e)
	s := m.summary[e.UserID]
	s.UserID = e.UserID
	s.TotalXP += e.Amount
	s.CurrentLevel, s.XPToNextLevel = levelFor(s.TotalXP)
	s.LastCalculatedAt = e.EarnedAt
	m.summary[e.UserID] = s
	return s, true, nil
}

func (m *memRepo) Summary(_ context.Context, userID uuid.UUID) (*models.XPSummary, error) {
	s, ok := m.summary[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return &s, nil
}

func (m *memRepo) Ledger(_ context.Context, userID uuid.UUID, limit int) ([]models.XPLedgerEntry, error) {
	var out []models.XPLedgerEntry
	for _, e := range m.ledger {
		if e.UserID == userID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

type memBoard struct {
	totals map[uuid.UUID]int
}

func (b *memBoard) SetTotal(_ context.Context, userID uuid.UUID, total int) error {
	b.totals[userID] = total
	return nil
}

func (b *memBoard) Top(context.Context, int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}

func (b *memBoard) Rank(context.Context, uuid.UUID) (models.LeaderboardEntry, bool, error) {
	return models.LeaderboardEntry{}, false, nil
}

func lesson(reward int) models.Lesson {
	return models.Lesson{ID: uuid.New(), LessonTitle: "Closures", XPReward: reward}
}

func TestGrantAddsRewardAndLevels(t *testing.T) {
	repo := newMemRepo()
	svc := NewXPService(logger.Nop(), repo, nil)
	user := uuid.New()
	earned := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	summary, awarded, err := svc.Grant(context.Background(), user, lesson(50), earned)
	require.NoError(t, err)
	assert.True(t, awarded)
	assert.Equal(t, 50, summary.TotalXP)
	assert.Equal(t, 1, summary.CurrentLevel)
	assert.Equal(t, 50, summary.XPToNextLevel)

	require.Len(t, repo.ledger, 1)
	assert.Equal(t, 50, repo.ledger[0].Amount)
	assert.Equal(t, models.XPSourceLesson, repo.ledger[0].SourceType)
	assert.Equal(t, "Completed lesson: Closures", repo.ledger[0].Description)
	assert.Equal(t, earned, repo.ledger[0].EarnedAt)

	summary, _, err = svc.Grant(context.Background(), user, lesson(60), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 110, summary.TotalXP)
	assert.Equal(t, 2, summary.CurrentLevel)
	assert.Equal(t, 140, summary.XPToNextLevel)
}

func TestGrantSameLessonTwiceIsIgnored(t *testing.T) {
	repo := newMemRepo()
	svc := NewXPService(logger.Nop(), repo, nil)
	user := uuid.New()
	l := lesson(50)

	_, _, err := svc.Grant(context.Background(), user, l, time.Now())
	require.NoError(t, err)
	summary, awarded, err := svc.Grant(context.Background(), user, l, time.Now())
	require.NoError(t, err)

	assert.False(t, awarded)
	assert.Equal(t, 50, summary.TotalXP)
	assert.Len(t, repo.ledger, 1)
}

func TestSummaryMatchesLedgerSum(t *testing.T) {
	repo := newMemRepo()
	svc := NewXPService(logger.Nop(), repo, nil)
	user := uuid.New()

	for _, reward := range []int{10, 25, 0, 70, 5} {
		_, _, err := svc.Grant(context.Background(), user, lesson(reward), time.Now())
		require.NoError(t, err)
	}

	sum := 0
	for _, e := range repo.ledger {
		sum += e.Amount
	}
	s, err := svc.Summary(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, sum, s.TotalXP)
}

func TestGrantPropagatesRepoError(t *testing.T) {
	repo := newMemRepo()
	repo.failOn = true
	svc := NewXPService(logger.Nop(), repo, nil)

	_, _, err := svc.Grant(context.Background(), uuid.New(), lesson(10), time.Now())
	assert.Error(t, err)
}

func TestPublishTotal(t *testing.T) {
	board := &memBoard{totals: map[uuid.UUID]int{}}
	svc := NewXPService(logger.Nop(), newMemRepo(), board)
	user := uuid.New()

	require.NoError(t, svc.PublishTotal(context.Background(), models.XPSummary{UserID: user, TotalXP: 320}))
	assert.Equal(t, 320, board.totals[user])

	noBoard := NewXPService(logger.Nop(), newMemRepo(), nil)
	assert.NoError(t, noBoard.PublishTotal(context.Background(), models.XPSummary{UserID: user}))
	top, err := noBoard.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
