package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/artem13815/growth/pkg/auth"
)

// UserRepository implements auth.UserRepository in memory. Emails are case-insensitive.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]auth.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]auth.User)}
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return auth.ErrUserAlreadyExists
	}
	user.Email = key
	r.byEmail[key] = user
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}
