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

type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

func (r *UserPostgres) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, username, full_name, email
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.FullName, &user.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("user by id: %w", err)
	}
	return &user, nil
}
