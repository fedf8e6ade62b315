package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/missionkuamar/auth-redux/internal/adapter/outbound/memory"
	"github.com/missionkuamar/auth-redux/internal/domain/user"
)

func newTestService() *UserService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(memory.NewUserStore(), logger)
}

func TestRegisterCreatesUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "A@X.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == "" {
		t.Error("expected generated ID")
	}
	if u.Email != "a@x.com" {
		t.Errorf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret1" {
		t.Error("expected hashed password")
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := []struct {
		name    string
		input   RegisterInput
		message string
	}{
		{"missing name", RegisterInput{Email: "a@x.com", Password: "secret1"}, "Name is required"},
		{"missing email", RegisterInput{Name: "A", Password: "secret1"}, "Please include a valid email"},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}, "Please include a valid email"},
		{"short password", RegisterInput{Name: "A", Email: "a@x.com", Password: "short"}, "Password must be at least 6 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Message != tc.message {
				t.Errorf("expected %q, got %q", tc.message, verr.Message)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "a@x.com", Password: "secret2"})
	if !errors.Is(err, user.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.Authenticate(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("expected %s, got %s", created.ID, u.ID)
	}

	// Email lookup is case-insensitive.
	if _, err := svc.Authenticate(ctx, "A@X.COM", "secret1"); err != nil {
		t.Errorf("expected case-insensitive email, got %v", err)
	}

	if _, err := svc.Authenticate(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@x.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUpdateAppliesNonEmptyFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, UpdateInput{Name: "B"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "B" {
		t.Errorf("expected name B, got %q", updated.Name)
	}
	if updated.Email != "a@x.com" {
		t.Errorf("empty email must leave the stored email unchanged, got %q", updated.Email)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("expected UpdatedAt to move forward")
	}

	// Password still works after a profile update.
	if _, err := svc.Authenticate(ctx, "a@x.com", "secret1"); err != nil {
		t.Errorf("authenticate after update: %v", err)
	}
}

func TestUpdateRejectsBadEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, _ := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	_, err := svc.Update(ctx, created.ID, UpdateInput{Email: "nope"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected *ValidationError, got %v", err)
	}
}

func TestUpdateMissingUser(t *testing.T) {
	svc := newTestService()
	_, err := svc.Update(context.Background(), "nope", UpdateInput{Name: "B"})
	if !errors.Is(err, user.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, _ := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, _ := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	b, _ := svc.Register(ctx, RegisterInput{Name: "B", Email: "b@x.com", Password: "secret1"})

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 || users[0].ID != a.ID || users[1].ID != b.ID {
		t.Errorf("unexpected roster: %+v", users)
	}
}
