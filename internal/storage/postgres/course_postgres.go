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

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `
		SELECT id, title, description, created_at, updated_at
		FROM courses
		WHERE id = $1
	`

	var c models.Course
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("course by id: %w", err)
	}
	return &c, nil
}

// Active lessons in learning order with the user's completion flag. Course
// membership goes through the module.
// Ties on module/lesson order fall back to the lesson id.
const lessonStatesQuery = `
	SELECT l.id, m.module_order, l.lesson_order, COALESCE(p.status = 'completed', FALSE)
	FROM lessons l
	JOIN modules m ON m.id = l.module_id
	LEFT JOIN user_lesson_progress p ON p.lesson_id = l.id AND p.user_id = $1
	WHERE l.is_active AND %s = $2
	ORDER BY m.module_order, l.lesson_order, l.id
`

func (r *CoursePostgres) CourseLessons(ctx context.Context, userID, courseID uuid.UUID) ([]models.LessonState, error) {
	return r.lessonStates(ctx, fmt.Sprintf(lessonStatesQuery, "m.course_id"), userID, courseID)
}

func (r *CoursePostgres) ModuleLessons(ctx context.Context, userID, moduleID uuid.UUID) ([]models.LessonState, error) {
	return r.lessonStates(ctx, fmt.Sprintf(lessonStatesQuery, "l.module_id"), userID, moduleID)
}

func (r *CoursePostgres) lessonStates(ctx context.Context, query string, userID, scopeID uuid.UUID) ([]models.LessonState, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, userID, scopeID)
	if err != nil {
		return nil, fmt.Errorf("lesson states: %w", err)
	}
	defer rows.Close()

	var states []models.LessonState
	for rows.Next() {
		var st models.LessonState
		if err := rows.Scan(&st.LessonID, &st.ModuleOrder, &st.LessonOrder, &st.Completed); err != nil {
			return nil, fmt.Errorf("scan lesson state: %w", err)
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lesson states rows: %w", err)
	}
	return states, nil
}

const courseProgressColumns = `
	user_id, course_id, progress_percentage, lessons_completed, total_lessons,
	current_lesson_id, started_at, completed_at, last_accessed_at
`

func scanCourseProgress(row pgx.Row) (models.CourseProgress, error) {
	var p models.CourseProgress
	err := row.Scan(
		&p.UserID, &p.CourseID, &p.ProgressPercentage, &p.LessonsCompleted, &p.TotalLessons,
		&p.CurrentLessonID, &p.StartedAt, &p.CompletedAt, &p.LastAccessedAt,
	)
	return p, err
}

// SaveCourseProgress follows the same ensure/lock/update sequence as lesson
// progress, so the previous completed_at seen by apply is authoritative.
func (r *CoursePostgres) SaveCourseProgress(
	ctx context.Context,
	userID, courseID uuid.UUID,
	now time.Time,
	apply func(old models.CourseProgress) models.CourseProgress,
) (models.CourseProgress, error) {
	var saved models.CourseProgress

	err := inTx(ctx, r.db, func(q querier) error {
		ensure := `
			INSERT INTO user_course_progress (user_id, course_id, started_at, last_accessed_at)
			VALUES ($1, $2, $3, $3)
			ON CONFLICT (user_id, course_id) DO NOTHING
		`
		if _, err := q.Exec(ctx, ensure, userID, courseID, now); err != nil {
			if isForeignKeyViolation(err) {
				return app_errors.ErrCourseNotFound
			}
			return fmt.Errorf("ensure course progress: %w", err)
		}

		lock := `SELECT ` + courseProgressColumns + `
			FROM user_course_progress
			WHERE user_id = $1 AND course_id = $2
			FOR UPDATE
		`
		old, err := scanCourseProgress(q.QueryRow(ctx, lock, userID, courseID))
		if err != nil {
			return fmt.Errorf("lock course progress: %w", err)
		}

		next := apply(old)

		update := `
			UPDATE user_course_progress
			SET progress_percentage = $3,
			    lessons_completed = $4,
			    total_lessons = $5,
			    current_lesson_id = $6,
			    completed_at = $7,
			    last_accessed_at = $8
			WHERE user_id = $1 AND course_id = $2
			RETURNING ` + courseProgressColumns
		saved, err = scanCourseProgress(q.QueryRow(ctx, update,
			userID, courseID, next.ProgressPercentage, next.LessonsCompleted, next.TotalLessons,
			next.CurrentLessonID, next.CompletedAt, next.LastAccessedAt,
		))
		if err != nil {
			return fmt.Errorf("update course progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.CourseProgress{}, err
	}
	return saved, nil
}

func (r *CoursePostgres) CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error) {
	query := `SELECT ` + courseProgressColumns + `
		FROM user_course_progress
		WHERE user_id = $1 AND course_id = $2
	`

	p, err := scanCourseProgress(conn(ctx, r.db).QueryRow(ctx, query, userID, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("course progress: %w", err)
	}
	return &p, nil
}
