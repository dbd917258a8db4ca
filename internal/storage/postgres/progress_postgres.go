package postgres

import (
	"LearnTrack/internal/app_errors"
	"LearnTrack/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProgressPostgres struct {
	db *pgxpool.Pool
}

func NewProgressPostgres(db *pgxpool.Pool) *ProgressPostgres {
	return &ProgressPostgres{db: db}
}

const lessonProgressColumns = `
	user_id, lesson_id, status, video_watched, video_progress_percentage,
	quiz_completed, quiz_score, task_completed, started_at, completed_at, last_accessed_at
`

func scanLessonProgress(row pgx.Row) (models.LessonProgress, error) {
	var p models.LessonProgress
	err := row.Scan(
		&p.UserID, &p.LessonID, &p.Status, &p.VideoWatched, &p.VideoProgressPercentage,
		&p.QuizCompleted, &p.QuizScore, &p.TaskCompleted, &p.StartedAt, &p.CompletedAt, &p.LastAccessedAt,
	)
	return p, err
}

// RecordLessonProgress makes sure the (user, lesson) row exists, locks it and
// stores whatever apply derives from the locked state. Concurrent reports for
// the same pair serialize on the row lock instead of overwriting each other.
func (r *ProgressPostgres) RecordLessonProgress(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	now time.Time,
	apply func(old models.LessonProgress) models.LessonProgress,
) (models.LessonProgress, error) {
	var saved models.LessonProgress

	err := inTx(ctx, r.db, func(q querier) error {
		ensure := `
			INSERT INTO user_lesson_progress (user_id, lesson_id, status, started_at, last_accessed_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (user_id, lesson_id) DO NOTHING
		`
		if _, err := q.Exec(ctx, ensure, userID, lessonID, models.StatusNotStarted, now); err != nil {
			if isForeignKeyViolation(err) {
				return app_errors.ErrLessonNotFound
			}
			return fmt.Errorf("ensure lesson progress: %w", err)
		}

		lock := `SELECT ` + lessonProgressColumns + `
			FROM user_lesson_progress
			WHERE user_id = $1 AND lesson_id = $2
			FOR UPDATE
		`
		old, err := scanLessonProgress(q.QueryRow(ctx, lock, userID, lessonID))
		if err != nil {
			return fmt.Errorf("lock lesson progress: %w", err)
		}

		next := apply(old)

		update := `
			UPDATE user_lesson_progress
			SET status = $3,
			    video_watched = $4,
			    video_progress_percentage = $5,
			    quiz_completed = $6,
			    quiz_score = $7,
			    task_completed = $8,
			    completed_at = $9,
			    last_accessed_at = $10
			WHERE user_id = $1 AND lesson_id = $2
			RETURNING ` + lessonProgressColumns
		saved, err = scanLessonProgress(q.QueryRow(ctx, update,
			userID, lessonID, next.Status, next.VideoWatched, next.VideoProgressPercentage,
			next.QuizCompleted, next.QuizScore, next.TaskCompleted, next.CompletedAt, next.LastAccessedAt,
		))
		if err != nil {
			return fmt.Errorf("update lesson progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.LessonProgress{}, err
	}
	return saved, nil
}

func (r *ProgressPostgres) LessonProgress(ctx context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error) {
	query := `SELECT ` + lessonProgressColumns + `
		FROM user_lesson_progress
		WHERE user_id = $1 AND lesson_id = $2
	`

	p, err := scanLessonProgress(conn(ctx, r.db).QueryRow(ctx, query, userID, lessonID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("lesson progress: %w", err)
	}
	return &p, nil
}
