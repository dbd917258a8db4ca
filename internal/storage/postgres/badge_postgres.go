package postgres

import (
	"LearnTrack/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BadgePostgres struct {
	db *pgxpool.Pool
}

func NewBadgePostgres(db *pgxpool.Pool) *BadgePostgres {
	return &BadgePostgres{db: db}
}

func (r *BadgePostgres) Badges(ctx context.Context) ([]models.Badge, error) {
	query := `
		SELECT id, code, title, description, icon, criteria, threshold
		FROM badges
		ORDER BY criteria, threshold
	`

	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("badges: %w", err)
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Code, &b.Title, &b.Description, &b.Icon, &b.Criteria, &b.Threshold); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

func (r *BadgePostgres) Counters(ctx context.Context, userID uuid.UUID) (models.BadgeCounters, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM user_lesson_progress WHERE user_id = $1 AND status = 'completed'),
			(SELECT COUNT(*) FROM user_course_progress WHERE user_id = $1 AND completed_at IS NOT NULL),
			(SELECT COALESCE(SUM(amount), 0) FROM user_xp WHERE user_id = $1)
	`

	var c models.BadgeCounters
	if err := conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(&c.LessonsCompleted, &c.CoursesCompleted, &c.TotalXP); err != nil {
		return models.BadgeCounters{}, fmt.Errorf("badge counters: %w", err)
	}
	return c, nil
}

// Award reports true only when the badge was not held before.
func (r *BadgePostgres) Award(ctx context.Context, userID, badgeID uuid.UUID, at time.Time) (bool, error) {
	query := `
		INSERT INTO user_badges (user_id, badge_id, awarded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`

	tag, err := conn(ctx, r.db).Exec(ctx, query, userID, badgeID, at)
	if err != nil {
		return false, fmt.Errorf("award badge: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BadgePostgres) UserBadges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error) {
	query := `
		SELECT b.id, b.code, b.title, b.description, b.icon, b.criteria, b.threshold, ub.user_id, ub.awarded_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.awarded_at, b.code
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("user badges: %w", err)
	}
	defer rows.Close()

	badges := make([]models.UserBadge, 0)
	for rows.Next() {
		var b models.UserBadge
		if err := rows.Scan(&b.ID, &b.Code, &b.Title, &b.Description, &b.Icon, &b.Criteria, &b.Threshold, &b.UserID, &b.AwardedAt); err != nil {
			return nil, fmt.Errorf("scan user badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
