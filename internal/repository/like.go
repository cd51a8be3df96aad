package repository

import (
	"context"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db *pgxpool.Pool
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

// Get retrieves a like by its ordered pair, nil when none exists
func (r *LikeRepository) Get(ctx context.Context, likerID, likeeID string) (*models.Like, error) {
	query := `
		SELECT liker_id, likee_id, created
		FROM likes
		WHERE liker_id = $1 AND likee_id = $2
	`
	var like models.Like
	err := r.db.QueryRow(ctx, query, likerID, likeeID).Scan(&like.LikerID, &like.LikeeID, &like.Created)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, apperrors.Store("failed to get like", err)
	}
	return &like, nil
}

// Create creates a new like
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (liker_id, likee_id, created)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, like.LikerID, like.LikeeID, like.Created)
	if err != nil {
		return apperrors.Store("failed to create like", err)
	}
	return nil
}

// RelatedIDs resolves the user ids on the requested side of the like
// relation: the users who liked userID, or the users userID has liked.
// Returns an empty slice, never nil, when no relations exist.
func (r *LikeRepository) RelatedIDs(ctx context.Context, userID string, dir models.LikeDirection) ([]string, error) {
	var query string
	if dir == models.Likers {
		query = `SELECT liker_id FROM likes WHERE likee_id = $1`
	} else {
		query = `SELECT likee_id FROM likes WHERE liker_id = $1`
	}

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Store("failed to query likes", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Store("failed to scan like", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("error iterating likes", err)
	}
	return ids, nil
}
