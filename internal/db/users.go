package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/melodyxpot/resumate-app/internal/types"
)

const userColumns = `id, email, name, default_project_id, save_resume_by_default, created_at, updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.DefaultProjectID, &u.SaveResumeByDefault, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser creates an account. Returns ErrEmailTaken when the email is already registered.
func (db *DB) CreateUser(ctx context.Context, email, name string) (*types.User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`INSERT INTO users (email, name) VALUES ($1, $2) RETURNING `+userColumns,
		email, name,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetUser retrieves an account by id. Returns nil if not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves an account by email, case-insensitively. Returns nil if not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// UpdateUserSettings replaces the account settings and bumps updated_at.
// Returns nil if the account does not exist.
func (db *DB) UpdateUserSettings(ctx context.Context, id uuid.UUID, defaultProjectID *uuid.UUID, saveByDefault bool) (*types.User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`UPDATE users SET default_project_id = $2, save_resume_by_default = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, defaultProjectID, saveByDefault,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user settings: %w", err)
	}
	return u, nil
}
