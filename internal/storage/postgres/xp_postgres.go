package postgres

import (
	"LearnTrack/internal/app_errors"
	"LearnTrack/internal/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type XPPostgres struct {
	db *pgxpool.Pool
}

func NewXPPostgres(db *pgxpool.Pool) *XPPostgres {
	return &XPPostgres{db: db}
}

func (r *XPPostgres) Levels(ctx context.Context) ([]models.LevelDefinition, error) {
	query := `
		SELECT level_number, xp_required, level_name, badge_icon
		FROM learning_levels
		ORDER BY level_number
	`

	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	defer rows.Close()

	var levels []models.LevelDefinition
	for rows.Next() {
		var l models.LevelDefinition
		if err := rows.Scan(&l.LevelNumber, &l.XPRequired, &l.LevelName, &l.BadgeIcon); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

// AwardXP appends the ledger entry and folds it into the summary. A second
// grant for the same source is ignored and reported with awarded=false.
func (r *XPPostgres) AwardXP(
	ctx context.Context,
	entry models.XPLedgerEntry,
	levelFor func(total int) (level, toNext int),
) (summary models.XPSummary, awarded bool, err error) {
	err = inTx(ctx, r.db, func(q querier) error {
		insert := `
			INSERT INTO user_xp (id, user_id, amount, source_type, source_id, description, earned_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id, source_type, source_id) WHERE source_id IS NOT NULL DO NOTHING
		`
		tag, err := q.Exec(ctx, insert,
			entry.ID, entry.UserID, entry.Amount, entry.SourceType, entry.SourceID, entry.Description, entry.EarnedAt,
		)
		if err != nil {
			return fmt.Errorf("insert xp ledger: %w", err)
		}
		if tag.RowsAffected() == 0 {
			summary, err = r.summary(ctx, q, entry.UserID)
			return err
		}
		awarded = true

		upsert := `
			INSERT INTO user_xp_summary (user_id, total_xp, last_calculated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id)
			DO UPDATE SET total_xp = user_xp_summary.total_xp + EXCLUDED.total_xp
			RETURNING total_xp
		`
		var total int
		if err := q.QueryRow(ctx, upsert, entry.UserID, entry.Amount, entry.EarnedAt).Scan(&total); err != nil {
			return fmt.Errorf("upsert xp summary: %w", err)
		}

		level, toNext := levelFor(total)
		update := `
			UPDATE user_xp_summary
			SET current_level = $2, xp_to_next_level = $3, last_calculated_at = $4
			WHERE user_id = $1
			RETURNING user_id, total_xp, current_level, xp_to_next_level, last_calculated_at
		`
		err = q.QueryRow(ctx, update, entry.UserID, level, toNext, entry.EarnedAt).Scan(
			&summary.UserID, &summary.TotalXP, &summary.CurrentLevel, &summary.XPToNextLevel, &summary.LastCalculatedAt,
		)
		if err != nil {
			return fmt.Errorf("update xp level: %w", err)
		}
		return nil
	})
	return summary, awarded, err
}

func (r *XPPostgres) Summary(ctx context.Context, userID uuid.UUID) (*models.XPSummary, error) {
	s, err := r.summary(ctx, conn(ctx, r.db), userID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *XPPostgres) summary(ctx context.Context, q querier, userID uuid.UUID) (models.XPSummary, error) {
	query := `
		SELECT user_id, total_xp, current_level, xp_to_next_level, last_calculated_at
		FROM user_xp_summary
		WHERE user_id = $1
	`

	var s models.XPSummary
	err := q.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.TotalXP, &s.CurrentLevel, &s.XPToNextLevel, &s.LastCalculatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.XPSummary{}, app_errors.ErrXPSummaryNotFound
		}
		return models.XPSummary{}, fmt.Errorf("xp summary: %w", err)
	}
	return s, nil
}

func (r *XPPostgres) Ledger(ctx context.Context, userID uuid.UUID, limit int) ([]models.XPLedgerEntry, error) {
	query := `
		SELECT id, user_id, amount, source_type, source_id, description, earned_at
		FROM user_xp
		WHERE user_id = $1
		ORDER BY earned_at DESC, id
		LIMIT $2
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("xp ledger: %w", err)
	}
	defer rows.Close()

	entries := make([]models.XPLedgerEntry, 0)
	for rows.Next() {
		var e models.XPLedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.SourceType, &e.SourceID, &e.Description, &e.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan xp ledger: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LedgerTotal sums every ledger entry of the user; the summary must always agree with it.
func (r *XPPostgres) LedgerTotal(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM user_xp WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("xp ledger total: %w", err)
	}
	return total, nil
}
