package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, gender, date_of_birth, known_as, city, country, created, last_active, push_token`

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, gender, date_of_birth, known_as, city, country, created, last_active, push_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Gender, user.DateOfBirth,
		user.KnownAs, user.City, user.Country, user.Created, user.LastActive, user.PushToken,
	)
	if err != nil {
		return apperrors.Store("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanOne(ctx, query, username)
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Gender, &user.DateOfBirth,
		&user.KnownAs, &user.City, &user.Country, &user.Created, &user.LastActive, &user.PushToken,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Store("failed to get user", err)
	}
	return &user, nil
}

// UsernameExists checks if a username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, apperrors.Store("failed to check username existence", err)
	}
	return exists, nil
}

// Update updates the mutable profile fields of a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET known_as = $1, city = $2, country = $3, push_token = $4
		WHERE id = $5
	`
	result, err := r.db.Exec(ctx, query,
		user.KnownAs, user.City, user.Country, user.PushToken, user.ID,
	)
	if err != nil {
		return apperrors.Store("failed to update user", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// TouchLastActive updates the last-active timestamp for a user
func (r *UserRepository) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_active = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		return apperrors.Store("failed to update last_active", err)
	}
	return nil
}

// CountDirectory counts users matching the directory filter
func (r *UserRepository) CountDirectory(ctx context.Context, f models.UserFilter) (int, error) {
	where, args := directoryWhere(f)
	query := `SELECT COUNT(*) FROM users ` + where

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperrors.Store("failed to count users", err)
	}
	return total, nil
}

// ListDirectory retrieves one ordered window of users matching the filter
func (r *UserRepository) ListDirectory(ctx context.Context, f models.UserFilter, limit, offset int) ([]*models.User, error) {
	where, args := directoryWhere(f)
	query := fmt.Sprintf(
		`SELECT %s FROM users %s %s LIMIT $%d OFFSET $%d`,
		userColumns, where, directoryOrder(f), len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Store("failed to list users", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Username, &user.PasswordHash, &user.Gender, &user.DateOfBirth,
			&user.KnownAs, &user.City, &user.Country, &user.Created, &user.LastActive, &user.PushToken,
		)
		if err != nil {
			return nil, apperrors.Store("failed to scan user", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("error iterating users", err)
	}
	return users, nil
}

// directoryWhere builds the WHERE clause for the directory filter. Count and
// slice share it so both reads observe the same predicate.
func directoryWhere(f models.UserFilter) (string, []any) {
	where := `WHERE id <> $1 AND gender = $2`
	args := []any{f.ExcludeID, f.Gender}

	if f.MinDob != nil && f.MaxDob != nil {
		where += fmt.Sprintf(` AND date_of_birth BETWEEN $%d AND $%d`, len(args)+1, len(args)+2)
		args = append(args, *f.MinDob, *f.MaxDob)
	}
	if f.IDs != nil {
		where += fmt.Sprintf(` AND id = ANY($%d)`, len(args)+1)
		args = append(args, f.IDs)
	}
	return where, args
}

// directoryOrder orders descending by the requested timestamp with an id
// tie-break so paging stays deterministic under equal timestamps.
func directoryOrder(f models.UserFilter) string {
	if f.OrderBy == models.OrderByCreated {
		return `ORDER BY created DESC, id ASC`
	}
	return `ORDER BY last_active DESC, id ASC`
}
