// Package service contains the application services of the account API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/missionkuamar/auth-redux/internal/domain/auth"
	"github.com/missionkuamar/auth-redux/internal/domain/user"
)

// UserService errors.
var (
	// ErrInvalidCredentials is returned when email or password don't match.
	// Deliberately the same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries a human-readable rejection of a request payload.
type ValidationError struct {
	// Message describes the first failing field.
	Message string
}

// Error returns the validation message.
func (e *ValidationError) Error() string {
	return e.Message
}

// RegisterInput are the fields required to create an account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateInput are the editable user fields. Empty fields are left
// unchanged.
type UpdateInput struct {
	Name  string `json:"name" validate:"omitempty"`
	Email string `json:"email" validate:"omitempty,email"`
}

// UserService provides registration, authentication, and CRUD operations
// on user accounts with Argon2id password hashing.
type UserService struct {
	store    user.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewUserService creates a new UserService on the given store.
func NewUserService(store user.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Register validates the input, hashes the password, and creates the
// account. Returns *ValidationError for bad input and
// user.ErrDuplicateEmail when the email is taken.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, registerValidationError(err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        user.NormalizeEmail(input.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Authenticate verifies email and password and returns the matching user.
// Returns ErrInvalidCredentials on unknown email or wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.store.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := auth.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*user.User, error) {
	return s.store.GetByID(ctx, id)
}

// List returns all users in creation order.
func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.store.List(ctx)
}

// Update applies the non-empty fields of input to the user and persists
// the result. Returns the updated record.
func (s *UserService) Update(ctx context.Context, id string, input UpdateInput) (*user.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, &ValidationError{Message: "Please include a valid email"}
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		u.Name = input.Name
	}
	if input.Email != "" {
		u.Email = user.NormalizeEmail(input.Email)
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", u.ID)
	return u, nil
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// registerValidationError converts validator output into the messages the
// register endpoint promises per field.
func registerValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: "invalid request"}
	}

	switch fe := verrs[0]; fe.Field() {
	case "Name":
		return &ValidationError{Message: "Name is required"}
	case "Email":
		return &ValidationError{Message: "Please include a valid email"}
	case "Password":
		return &ValidationError{Message: "Password must be at least 6 characters"}
	default:
		return &ValidationError{Message: fmt.Sprintf("invalid field %s", fe.Field())}
	}
}
