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

type LessonPostgres struct {
	db *pgxpool.Pool
}

func NewLessonPostgres(db *pgxpool.Pool) *LessonPostgres {
	return &LessonPostgres{db: db}
}

func (r *LessonPostgres) LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	query := `
		SELECT id, course_id, module_id, lesson_title, lesson_order, xp_reward, is_active, created_at, updated_at
		FROM lessons
		WHERE id = $1
	`

	var l models.Lesson
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&l.ID, &l.CourseID, &l.ModuleID, &l.LessonTitle, &l.LessonOrder,
		&l.XPReward, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("lesson by id: %w", err)
	}
	return &l, nil
}

func (r *LessonPostgres) ModuleByID(ctx context.Context, id uuid.UUID) (*models.Module, error) {
	query := `
		SELECT id, course_id, title, module_order, created_at, updated_at
		FROM modules
		WHERE id = $1
	`

	var m models.Module
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&m.ID, &m.CourseID, &m.Title, &m.Order, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrModuleNotFound
		}
		return nil, fmt.Errorf("module by id: %w", err)
	}
	return &m, nil
}
