// Package memory provides in-memory implementations of outbound ports.
package memory

import (
	"context"
	"sync"

	"github.com/missionkuamar/auth-redux/internal/domain/user"
)

// UserStore implements user.Store with an in-memory map.
// Thread-safe for concurrent access. For development/testing only.
// List returns users in insertion order, matching the SQLite store's
// creation-order listing.
type UserStore struct {
	users map[string]*user.User // ID -> User
	order []string              // IDs in insertion order
	mu    sync.RWMutex
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]*user.User),
	}
}

// Create inserts a new user.
// Returns user.ErrDuplicateEmail if the email is taken.
func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}

	// Store a copy to prevent external mutation
	userCopy := *u
	s.users[u.ID] = &userCopy
	s.order = append(s.order, u.ID)
	return nil
}

// GetByID retrieves a user by ID.
// Returns user.ErrNotFound if the user doesn't exist.
func (s *UserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	userCopy := *u
	return &userCopy, nil
}

// GetByEmail retrieves a user by normalized email.
// Returns user.ErrNotFound if the user doesn't exist.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, user.ErrNotFound
}

// List returns all users in insertion order.
func (s *UserStore) List(ctx context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.User, 0, len(s.order))
	for _, id := range s.order {
		if u, ok := s.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// Update persists changes to an existing user.
// Returns user.ErrNotFound if the user doesn't exist, user.ErrDuplicateEmail
// if the new email belongs to another user.
func (s *UserStore) Update(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	for id, existing := range s.users {
		if id != u.ID && existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}

	userCopy := *u
	s.users[u.ID] = &userCopy
	return nil
}

// Delete removes a user by ID.
// Returns user.ErrNotFound if the user doesn't exist.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(s.users, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
