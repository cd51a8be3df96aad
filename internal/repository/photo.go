package repository

import (
	"context"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create creates a new photo
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, user_id, url, description, date_added, is_main)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		photo.ID, photo.UserID, photo.URL, photo.Description, photo.DateAdded, photo.IsMain,
	)
	if err != nil {
		return apperrors.Store("failed to create photo", err)
	}
	return nil
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `
		SELECT id, user_id, url, description, date_added, is_main
		FROM photos
		WHERE id = $1
	`
	var photo models.Photo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&photo.ID, &photo.UserID, &photo.URL, &photo.Description, &photo.DateAdded, &photo.IsMain,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrPhotoNotFound
		}
		return nil, apperrors.Store("failed to get photo", err)
	}
	return &photo, nil
}

// ListForUser retrieves all photos for a user, main photo first
func (r *PhotoRepository) ListForUser(ctx context.Context, userID string) ([]*models.Photo, error) {
	query := `
		SELECT id, user_id, url, description, date_added, is_main
		FROM photos
		WHERE user_id = $1
		ORDER BY is_main DESC, date_added DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Store("failed to list photos", err)
	}
	defer rows.Close()

	var photos []*models.Photo
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.UserID, &photo.URL, &photo.Description, &photo.DateAdded, &photo.IsMain,
		)
		if err != nil {
			return nil, apperrors.Store("failed to scan photo", err)
		}
		photos = append(photos, &photo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("error iterating photos", err)
	}
	return photos, nil
}

// SetMain flags one photo as the user's main photo. Clearing and setting
// run in one transaction so at most one photo carries the flag at any time.
func (r *PhotoRepository) SetMain(ctx context.Context, userID, photoID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.Store("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE photos SET is_main = FALSE WHERE user_id = $1`, userID); err != nil {
		return apperrors.Store("failed to clear main photo", err)
	}

	result, err := tx.Exec(ctx,
		`UPDATE photos SET is_main = TRUE WHERE id = $1 AND user_id = $2`,
		photoID, userID,
	)
	if err != nil {
		return apperrors.Store("failed to set main photo", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrPhotoNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Store("failed to commit main photo switch", err)
	}
	return nil
}

// Delete removes a photo
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return apperrors.Store("failed to delete photo", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrPhotoNotFound
	}
	return nil
}
