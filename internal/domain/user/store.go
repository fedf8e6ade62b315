package user

import (
	"context"
	"errors"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store provides persistence for user accounts.
// This interface is defined in the domain to avoid circular imports.
// Implementations: in-memory (dev/tests), SQLite (prod).
type Store interface {
	// Create inserts a new user. The caller supplies the ID.
	// Returns ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user by ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by normalized email.
	// Returns ErrNotFound if the user doesn't exist.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List retrieves all users in creation (insertion) order.
	List(ctx context.Context) ([]User, error)

	// Update persists changes to Name, Email, PasswordHash, and UpdatedAt.
	// Returns ErrNotFound if the user doesn't exist, ErrDuplicateEmail if
	// the new email belongs to another user.
	Update(ctx context.Context, u *User) error

	// Delete removes a user by ID.
	// Returns ErrNotFound if the user doesn't exist.
	Delete(ctx context.Context, id string) error
}
