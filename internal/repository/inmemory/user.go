// Package inmemory provides map-backed implementations of the service store
// contracts. They keep the same visibility and ordering semantics as the
// postgres repositories and back the service tests.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/services"
)

// UserRepository is an in-memory implementation of services.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	store map[string]*models.User
}

var _ services.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		store: make(map[string]*models.User),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userCopy := *user
	r.store[userCopy.ID] = &userCopy
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.store {
		if user.Username == username {
			userCopy := *user
			return &userCopy, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.store {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	userCopy := *user
	r.store[userCopy.ID] = &userCopy
	return nil
}

func (r *UserRepository) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.store[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.LastActive = at
	return nil
}

func (r *UserRepository) CountDirectory(ctx context.Context, f models.UserFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filtered(f)), nil
}

func (r *UserRepository) ListDirectory(ctx context.Context, f models.UserFilter, limit, offset int) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.filtered(f)
	sort.Slice(matched, func(i, j int) bool {
		var ti, tj time.Time
		if f.OrderBy == models.OrderByCreated {
			ti, tj = matched[i].Created, matched[j].Created
		} else {
			ti, tj = matched[i].LastActive, matched[j].LastActive
		}
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return matched[i].ID < matched[j].ID
	})

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]*models.User, 0, end-offset)
	for _, user := range matched[offset:end] {
		userCopy := *user
		out = append(out, &userCopy)
	}
	return out, nil
}

func (r *UserRepository) filtered(f models.UserFilter) []*models.User {
	var matched []*models.User
	for _, user := range r.store {
		if user.ID == f.ExcludeID || user.Gender != f.Gender {
			continue
		}
		if f.MinDob != nil && user.DateOfBirth.Before(*f.MinDob) {
			continue
		}
		if f.MaxDob != nil && user.DateOfBirth.After(*f.MaxDob) {
			continue
		}
		if f.IDs != nil && !contains(f.IDs, user.ID) {
			continue
		}
		matched = append(matched, user)
	}
	return matched
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
