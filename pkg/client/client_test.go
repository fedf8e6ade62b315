package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoginSendsCredentials(t *testing.T) {
	var receivedBody Credentials

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content-type: %s", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&receivedBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"token": "t1",
				"_id":   "u1",
				"name":  "A",
				"email": "a@x.com",
			},
		})
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))

	token, user, err := c.Login(context.Background(), Credentials{Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "t1" {
		t.Errorf("expected token t1, got %s", token)
	}
	if user.ID != "u1" || user.Name != "A" || user.Email != "a@x.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if receivedBody.Email != "a@x.com" || receivedBody.Password != "secret1" {
		t.Errorf("unexpected request body: %+v", receivedBody)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer stored-token" {
			t.Errorf("unexpected auth header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"_id": "u1"}})
	}))
	defer server.Close()

	store := NewMemoryTokenStore()
	if err := store.Save("stored-token", nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	c := NewClient(WithBaseURL(server.URL), WithTokenStore(store))
	if _, err := c.CurrentUser(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNoBearerWhenStoreEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	if _, err := c.ListUsers(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServerErrorMessagePassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "email already registered"})
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	_, _, err := c.Register(context.Background(), Registration{Name: "A", Email: "a@x.com", Password: "secret1"})
	if err == nil {
		t.Fatal("expected error")
	}

	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("expected *ServerError, got %T: %v", err, err)
	}
	if srvErr.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", srvErr.Status)
	}
	if srvErr.Message != "email already registered" {
		t.Errorf("unexpected message: %q", srvErr.Message)
	}
	if !errors.Is(err, ErrServer) {
		t.Error("expected errors.Is(err, ErrServer)")
	}
}

func TestLegacyMessageFieldAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "duplicate email"})
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	_, _, err := c.Login(context.Background(), Credentials{})

	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("expected *ServerError, got %T", err)
	}
	if srvErr.Message != "duplicate email" {
		t.Errorf("unexpected message: %q", srvErr.Message)
	}
}

func TestNetworkError(t *testing.T) {
	// Point at a server that is no longer listening.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c := NewClient(WithBaseURL(addr), WithTimeout(500*time.Millisecond))
	_, err := c.CurrentUser(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected errors.Is(err, ErrNetwork), got %v", err)
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("expected *NetworkError, got %T", err)
	}
}

func TestUnauthorizedClearsStoreAndFiresHookOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	}))
	defer server.Close()

	store := NewMemoryTokenStore()
	if err := store.Save("stale", &User{ID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var hookCalls atomic.Int32
	var hookMessage string
	c := NewClient(
		WithBaseURL(server.URL),
		WithTokenStore(store),
		WithUnauthorizedHook(func(message string) {
			hookCalls.Add(1)
			hookMessage = message
		}),
	)

	_, err := c.CurrentUser(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if got := hookCalls.Load(); got != 1 {
		t.Errorf("expected hook to fire once, fired %d times", got)
	}
	if hookMessage != "token expired" {
		t.Errorf("unexpected hook message: %q", hookMessage)
	}
	token, user, _ := store.Load()
	if token != "" || user != nil {
		t.Errorf("expected cleared store, got token=%q user=%+v", token, user)
	}
}

func TestUnauthorizedOnAnyOperation(t *testing.T) {
	// The 401 policy is in the shared request path, so every operation
	// must trigger it, not just the auth endpoints.
	ops := map[string]func(c *Client) error{
		"currentUser": func(c *Client) error { _, err := c.CurrentUser(context.Background()); return err },
		"listUsers":   func(c *Client) error { _, err := c.ListUsers(context.Background()); return err },
		"getUser":     func(c *Client) error { _, err := c.GetUser(context.Background(), "u1"); return err },
		"updateUser": func(c *Client) error {
			_, err := c.UpdateUser(context.Background(), "u1", UserUpdate{Name: "B"})
			return err
		},
		"deleteUser": func(c *Client) error { return c.DeleteUser(context.Background(), "u1") },
		"updateProfile": func(c *Client) error {
			_, err := c.UpdateProfile(context.Background(), UserUpdate{Name: "B"})
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			store := NewMemoryTokenStore()
			_ = store.Save("stale", nil)
			c := NewClient(WithBaseURL(server.URL), WithTokenStore(store))

			if err := op(c); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
			if token, _, _ := store.Load(); token != "" {
				t.Error("expected token store cleared after 401")
			}
		})
	}
}

func TestDeleteUserNoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/users/u2" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	if err := c.DeleteUser(context.Background(), "u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateUserPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/users/u1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var fields UserUpdate
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if fields.Name != "B" {
			t.Errorf("unexpected fields: %+v", fields)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"_id": "u1", "name": "B", "email": "a@x.com"},
		})
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	user, err := c.UpdateUser(context.Background(), "u1", UserUpdate{Name: "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "B" {
		t.Errorf("expected updated name, got %q", user.Name)
	}
}
