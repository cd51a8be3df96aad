package inmemory

import (
	"context"
	"sync"

	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/services"
)

// LikeRepository is an in-memory implementation of services.LikeRepository.
type LikeRepository struct {
	mu    sync.RWMutex
	likes []models.Like
}

var _ services.LikeRepository = (*LikeRepository)(nil)

func NewLikeRepository() *LikeRepository {
	return &LikeRepository{}
}

func (r *LikeRepository) Get(ctx context.Context, likerID, likeeID string) (*models.Like, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, like := range r.likes {
		if like.LikerID == likerID && like.LikeeID == likeeID {
			likeCopy := like
			return &likeCopy, nil
		}
	}
	return nil, nil
}

func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.likes = append(r.likes, *like)
	return nil
}

func (r *LikeRepository) RelatedIDs(ctx context.Context, userID string, dir models.LikeDirection) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := []string{}
	for _, like := range r.likes {
		if dir == models.Likers && like.LikeeID == userID {
			ids = append(ids, like.LikerID)
		}
		if dir == models.Likees && like.LikerID == userID {
			ids = append(ids, like.LikeeID)
		}
	}
	return ids, nil
}
