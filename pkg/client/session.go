package client

import (
	"context"
	"log/slog"
	"sync"
)

// Session is the authoritative in-memory authentication state plus the
// subordinate user roster. It is owned by a Manager and mutated only
// through the Manager's named transitions; consumers read copies via
// Snapshot.
type Session struct {
	// Token is the bearer credential. Empty means unauthenticated.
	Token string

	// User is the authenticated user's record, nil when unauthenticated.
	// Token and User are set and cleared together.
	User *User

	// IsAuthenticated is true iff the last terminal transition was a
	// success and no failure or logout has occurred since.
	IsAuthenticated bool

	// Loading is true while an authentication-affecting operation is in
	// flight.
	Loading bool

	// Error holds the last failure message. Cleared by ClearError and at
	// the start of the next attempt.
	Error string

	// Users is the cached roster in server response order.
	Users []User

	// UserLoading is true while the roster is being fetched. Independent
	// of Loading.
	UserLoading bool
}

// action is a closed set of session transitions. Every mutation of the
// Session goes through apply's exhaustive switch; an unknown action is a
// programming error and panics rather than silently doing nothing.
type action interface {
	isAction()
}

// authStart: * -> Authenticating.
type authStart struct{}

// authSuccess: Authenticating -> Authenticated; persists token and user.
type authSuccess struct {
	token string
	user  User
}

// authFail: * -> Unauthenticated; clears credentials, records the message.
type authFail struct{ message string }

// userLoaded: stored-token bootstrap succeeded; token stays untouched.
type userLoaded struct{ user User }

// tokenRestored: a stored token was found at startup.
type tokenRestored struct{ token string }

// loggedOut: * -> Unauthenticated with no error; roster cleared too.
type loggedOut struct{}

// errorsCleared: clears Error only.
type errorsCleared struct{}

// profileUpdated: own record merged; authentication state untouched.
type profileUpdated struct{ user User }

// rosterLoading / rosterLoaded / rosterFailed: roster fetch lifecycle.
type rosterLoading struct{}
type rosterLoaded struct{ users []User }
type rosterFailed struct{}

// rosterUpdated: one roster entry replaced by ID.
type rosterUpdated struct{ user User }

// rosterDeleted: one roster entry removed by ID.
type rosterDeleted struct{ id string }

func (authStart) isAction()      {}
func (authSuccess) isAction()    {}
func (authFail) isAction()       {}
func (userLoaded) isAction()     {}
func (tokenRestored) isAction()  {}
func (loggedOut) isAction()      {}
func (errorsCleared) isAction()  {}
func (profileUpdated) isAction() {}
func (rosterLoading) isAction()  {}
func (rosterLoaded) isAction()   {}
func (rosterUpdated) isAction()  {}
func (rosterDeleted) isAction()  {}
func (rosterFailed) isAction()   {}

// Manager owns the Session. It couples the REST client, the token store,
// and the transition reducer: every transition that sets or clears the
// in-memory token updates the token store in the same step, so the two
// can never diverge.
//
// Overlapping operations are not fenced: if two logins race, the state is
// determined by whichever response's transition applies last.
type Manager struct {
	client *Client
	store  TokenStore
	logger *slog.Logger

	mu    sync.Mutex
	state Session
}

// NewManager creates a Manager around the given client. Unless the client
// was built with WithUnauthorizedHook, the manager installs the global 401
// teardown: any call that receives a 401 transitions the session to
// Unauthenticated.
func NewManager(c *Client) *Manager {
	m := &Manager{
		client: c,
		store:  c.tokenStore,
		logger: c.logger,
	}
	if c.onUnauthorized == nil {
		c.onUnauthorized = func(message string) {
			if message == "" {
				message = "session expired"
			}
			m.apply(authFail{message: message})
		}
	}
	return m
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.state
	if m.state.User != nil {
		userCopy := *m.state.User
		snap.User = &userCopy
	}
	if m.state.Users != nil {
		snap.Users = make([]User, len(m.state.Users))
		copy(snap.Users, m.state.Users)
	}
	return snap
}

// apply runs one transition under the manager's lock. Store side effects
// happen inside the same critical section as the state mutation, which is
// what keeps the in-memory token and the persisted token consistent.
func (m *Manager) apply(a action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch a := a.(type) {
	case authStart:
		m.state.Loading = true
		m.state.Error = ""

	case authSuccess:
		m.saveCredentials(a.token, &a.user)
		m.state.Token = a.token
		user := a.user
		m.state.User = &user
		m.state.IsAuthenticated = true
		m.state.Loading = false
		m.state.Error = ""

	case authFail:
		m.clearCredentials()
		m.state.Token = ""
		m.state.User = nil
		m.state.IsAuthenticated = false
		m.state.Loading = false
		m.state.Error = a.message

	case userLoaded:
		user := a.user
		m.state.User = &user
		m.state.IsAuthenticated = true
		m.state.Loading = false

	case tokenRestored:
		m.state.Token = a.token
		m.state.Loading = true
		m.state.Error = ""

	case loggedOut:
		m.clearCredentials()
		m.state = Session{}

	case errorsCleared:
		m.state.Error = ""

	case profileUpdated:
		user := a.user
		m.state.User = &user
		m.saveCredentials(m.state.Token, m.state.User)

	case rosterLoading:
		m.state.UserLoading = true

	case rosterLoaded:
		m.state.Users = a.users
		m.state.UserLoading = false

	case rosterUpdated:
		for i := range m.state.Users {
			if m.state.Users[i].ID == a.user.ID {
				m.state.Users[i] = a.user
				break
			}
		}
		// Keep the session's own record in step with the roster.
		if m.state.User != nil && m.state.User.ID == a.user.ID {
			user := a.user
			m.state.User = &user
			m.saveCredentials(m.state.Token, m.state.User)
		}

	case rosterDeleted:
		for i := range m.state.Users {
			if m.state.Users[i].ID == a.id {
				m.state.Users = append(m.state.Users[:i], m.state.Users[i+1:]...)
				break
			}
		}

	case rosterFailed:
		m.state.UserLoading = false

	default:
		panic("client: unhandled session action")
	}
}

// saveCredentials persists token and user, logging rather than failing the
// transition: storage is assumed available, and an in-memory session that
// outlives a failed write beats losing the authenticated state.
func (m *Manager) saveCredentials(token string, user *User) {
	if err := m.store.Save(token, user); err != nil {
		m.logger.Warn("failed to persist credentials", "error", err)
	}
}

// clearCredentials removes the persisted token and user.
func (m *Manager) clearCredentials() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear credentials", "error", err)
	}
}

// Bootstrap initializes the session from the token store. With no stored
// token the session settles Unauthenticated with no error. With a token,
// it asks the server for the current user: success keeps the token and
// loads the user, failure tears the session down with the error message.
// Call once at startup, before any other operation.
func (m *Manager) Bootstrap(ctx context.Context) error {
	token, _, err := m.store.Load()
	if err != nil {
		m.logger.Warn("failed to read credentials", "error", err)
	}
	if token == "" {
		m.apply(authFail{})
		return nil
	}

	m.apply(tokenRestored{token: token})
	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.failAuth(err)
		return err
	}
	m.apply(userLoaded{user: *user})
	return nil
}

// Login authenticates with email and password. On success the token and
// user are persisted and the session becomes Authenticated; on failure the
// session is torn down and the message is recorded in Session.Error.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.apply(authStart{})
	token, user, err := m.client.Login(ctx, Credentials{Email: email, Password: password})
	if err != nil {
		m.failAuth(err)
		return err
	}
	m.apply(authSuccess{token: token, user: *user})
	return nil
}

// Register creates an account and authenticates in one step. Transitions
// are the same as Login's.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	m.apply(authStart{})
	token, user, err := m.client.Register(ctx, Registration{Name: name, Email: email, Password: password})
	if err != nil {
		m.failAuth(err)
		return err
	}
	m.apply(authSuccess{token: token, user: *user})
	return nil
}

// Logout clears the credentials, the session, and the roster. It never
// fails and sets no error.
func (m *Manager) Logout() {
	m.apply(loggedOut{})
}

// UpdateProfile updates the authenticated user's own record. On success
// the returned record replaces Session.User and is re-persisted alongside
// the untouched token. On failure the error is returned without touching
// Loading, IsAuthenticated, or Session.Error: a profile-update failure
// must not log the user out (a 401 still tears down via the shared hook).
func (m *Manager) UpdateProfile(ctx context.Context, fields UserUpdate) (*User, error) {
	user, err := m.client.UpdateProfile(ctx, fields)
	if err != nil {
		return nil, err
	}
	m.apply(profileUpdated{user: *user})
	return user, nil
}

// ClearError clears Session.Error and nothing else. Idempotent.
func (m *Manager) ClearError() {
	m.apply(errorsCleared{})
}

// failAuth applies the failure transition for an authentication-affecting
// operation, recording the surfaced message.
func (m *Manager) failAuth(err error) {
	m.apply(authFail{message: messageOf(err)})
}
