package client

import "context"

// Roster operations. The roster lives in the same Session container as the
// authentication state but has independent loading semantics: UserLoading
// never couples to Loading, and roster failures never overwrite
// Session.Error except through the shared 401 teardown.

// LoadUsers fetches the full user roster and replaces Session.Users
// wholesale, preserving server response order.
func (m *Manager) LoadUsers(ctx context.Context) ([]User, error) {
	m.apply(rosterLoading{})
	users, err := m.client.ListUsers(ctx)
	if err != nil {
		m.apply(rosterFailed{})
		return nil, err
	}
	m.apply(rosterLoaded{users: users})
	return users, nil
}

// GetUser fetches one account by ID. It does not touch session state;
// a 401 still tears the session down through the shared hook.
func (m *Manager) GetUser(ctx context.Context, id string) (*User, error) {
	return m.client.GetUser(ctx, id)
}

// UpdateUser updates a roster entry by ID with the server's returned
// record. When the updated record is the authenticated user's own,
// Session.User is refreshed and re-persisted so the two views of the same
// record never disagree.
func (m *Manager) UpdateUser(ctx context.Context, id string, fields UserUpdate) (*User, error) {
	user, err := m.client.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	m.apply(rosterUpdated{user: *user})
	return user, nil
}

// DeleteUser removes a roster entry by ID. Deleting the currently
// authenticated user's own account forces a logout: the server-side record
// is gone, so keeping the session alive would leave Session.User pointing
// at a deleted record.
func (m *Manager) DeleteUser(ctx context.Context, id string) error {
	if err := m.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	m.apply(rosterDeleted{id: id})

	if snap := m.Snapshot(); snap.User != nil && snap.User.ID == id {
		m.Logout()
	}
	return nil
}
