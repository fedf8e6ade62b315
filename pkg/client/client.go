// Package client provides the Go client for the auth-redux account API.
//
// It wraps the REST endpoints (register, login, current user, user roster,
// profile update) behind a Client, persists the bearer token through a
// TokenStore, and exposes a Manager that owns the authentication session
// state and mutates it only through named transitions.
//
// Quick start:
//
//	store := client.NewMemoryTokenStore()
//	c := client.NewClient(
//	    client.WithBaseURL("http://localhost:8080"),
//	    client.WithTokenStore(store),
//	)
//	m := client.NewManager(c)
//	if err := m.Login(ctx, "a@x.com", "secret1"); err != nil {
//	    fmt.Println("login failed:", m.Snapshot().Error)
//	}
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client issues authenticated HTTP calls to the account API. It attaches
// the bearer token held by its TokenStore to every request, and on any
// HTTP 401 response it clears the store and fires the unauthorized hook
// exactly once before surfacing an *AuthorizationError. That teardown is
// a single shared policy in doRequest, not per-endpoint logic.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tokenStore TokenStore
	logger     *slog.Logger

	// onUnauthorized is invoked once per request that received a 401,
	// after the token store has been cleared. NewManager installs the
	// session teardown here when no hook was configured.
	onUnauthorized func(message string)
}

// NewClient creates a new account API client.
// The base URL defaults to the AUTH_REDUX_SERVER_ADDR environment variable,
// falling back to http://localhost:5000. Options override the defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: os.Getenv("AUTH_REDUX_SERVER_ADDR"),
		timeout: 10 * time.Second,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		c.baseURL = "http://localhost:5000"
	}

	if c.tokenStore == nil {
		c.tokenStore = NewMemoryTokenStore()
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// TokenStore returns the store holding this client's credentials.
func (c *Client) TokenStore() TokenStore {
	return c.tokenStore
}

// Login authenticates with email and password and returns the bearer token
// and user record. The token is not persisted here; session transitions own
// the store (see Manager.Login).
func (c *Client) Login(ctx context.Context, creds Credentials) (string, *User, error) {
	var env authEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", creds, &env); err != nil {
		return "", nil, err
	}
	user := env.Data.User
	return env.Data.Token, &user, nil
}

// Register creates a new account and returns the bearer token and user record.
func (c *Client) Register(ctx context.Context, reg Registration) (string, *User, error) {
	var env authEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", reg, &env); err != nil {
		return "", nil, err
	}
	user := env.Data.User
	return env.Data.Token, &user, nil
}

// CurrentUser returns the user record for the stored bearer token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var env userEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListUsers returns all user records in server response order.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var env userListEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/api/users", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetUser returns a single user record by ID.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var env userEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/api/users/"+id, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// UpdateUser updates a user record by ID and returns the server's record.
func (c *Client) UpdateUser(ctx context.Context, id string, fields UserUpdate) (*User, error) {
	var env userEnvelope
	if err := c.doRequest(ctx, http.MethodPut, "/api/users/"+id, fields, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// DeleteUser deletes a user record by ID.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/users/"+id, nil, nil)
}

// UpdateProfile updates the authenticated user's own record and returns
// the server's merged record.
func (c *Client) UpdateProfile(ctx context.Context, fields UserUpdate) (*User, error) {
	var env userEnvelope
	if err := c.doRequest(ctx, http.MethodPut, "/api/users/profile/update", fields, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// doRequest performs an HTTP request against the account API.
// Failures map onto the error taxonomy: transport errors become
// *NetworkError, a 401 becomes *AuthorizationError after the shared
// teardown, and any other non-2xx becomes *ServerError.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	url := strings.TrimRight(c.baseURL, "/") + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token, _, loadErr := c.tokenStore.Load(); loadErr == nil && token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &NetworkError{Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &NetworkError{Cause: err}
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(respBody)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		return &ServerError{Status: httpResp.StatusCode, Message: eb.text()}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// handleUnauthorized applies the global 401 policy: clear the token store,
// fire the unauthorized hook, return an *AuthorizationError. It runs once
// per failed request regardless of which operation triggered it.
func (c *Client) handleUnauthorized(respBody []byte) error {
	var eb errorBody
	_ = json.Unmarshal(respBody, &eb)
	message := eb.text()

	if err := c.tokenStore.Clear(); err != nil {
		c.logger.Warn("failed to clear token store after 401", "error", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(message)
	}
	return &AuthorizationError{Message: message}
}
