package redis

import (
	"LearnTrack/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Leaderboard keeps every user's total XP in one sorted set.
type Leaderboard struct {
	rdb *goredis.Client
	key string
}

func NewLeaderboard(rdb *goredis.Client, key string) *Leaderboard {
	return &Leaderboard{rdb: rdb, key: key}
}

// SetTotal stores the absolute total. ZADD GT keeps the higher score, so a
// stale total published late never moves a learner down. Needs Redis 6.2+.
func (l *Leaderboard) SetTotal(ctx context.Context, userID uuid.UUID, totalXP int) error {
	err := l.rdb.ZAddGT(ctx, l.key, goredis.Z{Score: float64(totalXP), Member: userID.String()}).Err()
	if err != nil {
		return fmt.Errorf("leaderboard set: %w", err)
	}
	return nil
}

func (l *Leaderboard) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		return []models.LeaderboardEntry{}, nil
	}

	zs, err := l.rdb.ZRevRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard top: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:    int64(i + 1),
			UserID:  id,
			TotalXP: int64(z.Score),
		})
	}
	return entries, nil
}

// Rank returns the user's 1-based position; ok is false for users not on the board.
func (l *Leaderboard) Rank(ctx context.Context, userID uuid.UUID) (entry models.LeaderboardEntry, ok bool, err error) {
	member := userID.String()

	rank, err := l.rdb.ZRevRank(ctx, l.key, member).Result()
	if errors.Is(err, goredis.Nil) {
		return models.LeaderboardEntry{}, false, nil
	}
	if err != nil {
		return models.LeaderboardEntry{}, false, fmt.Errorf("leaderboard rank: %w", err)
	}

	score, err := l.rdb.ZScore(ctx, l.key, member).Result()
	if err != nil {
		return models.LeaderboardEntry{}, false, fmt.Errorf("leaderboard score: %w", err)
	}

	return models.LeaderboardEntry{Rank: rank + 1, UserID: userID, TotalXP: int64(score)}, true, nil
}
