package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/abdidvp/hexagonal/internal/domain"
)

var errPoisoned = domain.Infrastructure("user store is poisoned", nil)

// Repository implements domain.UserRepository over a map guarded by a single
// RWMutex. Reads share the lock, writes hold it exclusively. A panic while the
// lock is held poisons the store and every later call fails.
type Repository struct {
	mu       sync.RWMutex
	users    map[domain.UserID]domain.User
	poisoned atomic.Bool
}

// New creates an empty in-memory store.
func New() *Repository {
	return &Repository{users: make(map[domain.UserID]domain.User)}
}

func (r *Repository) FindByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	var found *domain.User
	err := r.read(func() {
		if u, ok := r.users[id]; ok {
			found = &u
		}
	})
	return found, err
}

// FindByEmail scans every record while holding the read lock.
func (r *Repository) FindByEmail(_ context.Context, email domain.Email) (*domain.User, error) {
	var found *domain.User
	err := r.read(func() {
		for _, u := range r.users {
			if u.Email == email {
				found = &u
				return
			}
		}
	})
	return found, err
}

func (r *Repository) Save(_ context.Context, user domain.User) error {
	return r.write(func() {
		r.users[user.ID] = user
	})
}

func (r *Repository) Delete(_ context.Context, id domain.UserID) error {
	return r.write(func() {
		delete(r.users, id)
	})
}

// List returns a snapshot ordered by creation time.
func (r *Repository) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	err := r.read(func() {
		out = make([]domain.User, 0, len(r.users))
		for _, u := range r.users {
			out = append(out, u)
		}
	})
	if err != nil {
		return nil, err
	}
	domain.SortUsers(out)
	return out, nil
}

func (r *Repository) read(fn func()) (err error) {
	if r.poisoned.Load() {
		return errPoisoned
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	defer r.recoverPoison(&err)
	if r.poisoned.Load() {
		return errPoisoned
	}
	fn()
	return nil
}

func (r *Repository) write(fn func()) (err error) {
	if r.poisoned.Load() {
		return errPoisoned
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.recoverPoison(&err)
	// A writer may have poisoned the store while we waited.
	if r.poisoned.Load() {
		return errPoisoned
	}
	fn()
	return nil
}

func (r *Repository) recoverPoison(err *error) {
	if p := recover(); p != nil {
		r.poisoned.Store(true)
		*err = domain.Infrastructure("user store is poisoned", fmt.Errorf("panic while holding lock: %v", p))
	}
}
