package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ldurand/contacthub/internal/domain/user"
)

// In-memory user store mirroring the postgres repo contract. Used as a test
// double; the email uniqueness check is atomic under the mutex, as the
// database index would be.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // keyed by email
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[email]; exists {
		return user.User{}, user.ErrEmailTaken
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	r.items[email] = u

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[email]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}
