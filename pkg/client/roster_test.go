package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUsersPreservesOrderThenDelete(t *testing.T) {
	f := newFakeAccount()
	f.respond("GET /api/users", http.StatusOK, map[string]any{
		"data": []map[string]any{
			{"_id": "u1", "name": "A"},
			{"_id": "u2", "name": "B"},
		},
	})
	f.respond("DELETE /api/users/u1", http.StatusOK, map[string]any{})
	m, _ := newTestManager(t, f)

	users, err := m.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u2", users[1].ID)
	assert.False(t, m.Snapshot().UserLoading)

	require.NoError(t, m.DeleteUser(context.Background(), "u1"))

	snap := m.Snapshot()
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "u2", snap.Users[0].ID)
}

func TestLoadUsersReplacesWholesale(t *testing.T) {
	f := newFakeAccount()
	f.respond("GET /api/users", http.StatusOK, map[string]any{
		"data": []map[string]any{{"_id": "u3"}},
	})
	m, _ := newTestManager(t, f)
	m.apply(rosterLoaded{users: []User{{ID: "u1"}, {ID: "u2"}}})

	_, err := m.LoadUsers(context.Background())
	require.NoError(t, err)

	snap := m.Snapshot()
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "u3", snap.Users[0].ID)
}

func TestRosterFailureLeavesSessionErrorAlone(t *testing.T) {
	f := newFakeAccount()
	f.respond("GET /api/users", http.StatusInternalServerError, map[string]string{
		"error": "database down",
	})
	m, _ := newTestManager(t, f)
	m.apply(authSuccess{token: "t1", user: User{ID: "u1"}})

	_, err := m.LoadUsers(context.Background())
	require.Error(t, err)

	snap := m.Snapshot()
	assert.False(t, snap.UserLoading)
	assert.Empty(t, snap.Error, "non-401 roster failures are surfaced to the caller, not the session")
	assert.True(t, snap.IsAuthenticated)
}

func TestUpdateUserSyncsOwnSessionRecord(t *testing.T) {
	f := newFakeAccount()
	f.respond("PUT /api/users/u1", http.StatusOK, map[string]any{
		"data": map[string]any{"_id": "u1", "name": "B", "email": "a@x.com"},
	})
	m, store := newTestManager(t, f)
	m.apply(authSuccess{token: "t1", user: User{ID: "u1", Name: "A", Email: "a@x.com"}})
	m.apply(rosterLoaded{users: []User{{ID: "u1", Name: "A"}, {ID: "u2", Name: "C"}}})

	updated, err := m.UpdateUser(context.Background(), "u1", UserUpdate{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)

	snap := m.Snapshot()
	// Consistency round-trip: the roster entry and the session's own record
	// are the same record after updating the authenticated user.
	var rosterEntry *User
	for i := range snap.Users {
		if snap.Users[i].ID == "u1" {
			rosterEntry = &snap.Users[i]
		}
	}
	require.NotNil(t, rosterEntry)
	require.NotNil(t, snap.User)
	assert.Equal(t, *snap.User, *rosterEntry)
	assert.Equal(t, "B", snap.User.Name)

	_, user, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "B", user.Name)
}

func TestUpdateOtherUserLeavesSessionRecord(t *testing.T) {
	f := newFakeAccount()
	f.respond("PUT /api/users/u2", http.StatusOK, map[string]any{
		"data": map[string]any{"_id": "u2", "name": "Z"},
	})
	m, _ := newTestManager(t, f)
	m.apply(authSuccess{token: "t1", user: User{ID: "u1", Name: "A"}})
	m.apply(rosterLoaded{users: []User{{ID: "u1", Name: "A"}, {ID: "u2", Name: "C"}}})

	_, err := m.UpdateUser(context.Background(), "u2", UserUpdate{Name: "Z"})
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, "A", snap.User.Name)
	assert.Equal(t, "Z", snap.Users[1].Name)
}

func TestUpdateUserMatchesByIDNotPosition(t *testing.T) {
	f := newFakeAccount()
	f.respond("PUT /api/users/u2", http.StatusOK, map[string]any{
		"data": map[string]any{"_id": "u2", "name": "Z"},
	})
	m, _ := newTestManager(t, f)
	// u2 deliberately not in first position.
	m.apply(rosterLoaded{users: []User{{ID: "u3"}, {ID: "u2", Name: "C"}, {ID: "u1"}}})

	_, err := m.UpdateUser(context.Background(), "u2", UserUpdate{Name: "Z"})
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, "u3", snap.Users[0].ID)
	assert.Equal(t, "Z", snap.Users[1].Name)
	assert.Equal(t, "u1", snap.Users[2].ID)
}

func TestDeleteOwnAccountForcesLogout(t *testing.T) {
	f := newFakeAccount()
	f.respond("DELETE /api/users/u1", http.StatusOK, map[string]any{})
	m, store := newTestManager(t, f)
	require.NoError(t, store.Save("t1", &User{ID: "u1"}))
	m.apply(authSuccess{token: "t1", user: User{ID: "u1"}})
	m.apply(rosterLoaded{users: []User{{ID: "u1"}, {ID: "u2"}}})

	require.NoError(t, m.DeleteUser(context.Background(), "u1"))

	snap := m.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	checkInvariant(t, snap)

	token, _, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestDeleteMissingIDLeavesRoster(t *testing.T) {
	f := newFakeAccount()
	f.respond("DELETE /api/users/u9", http.StatusOK, map[string]any{})
	m, _ := newTestManager(t, f)
	m.apply(rosterLoaded{users: []User{{ID: "u1"}, {ID: "u2"}}})

	require.NoError(t, m.DeleteUser(context.Background(), "u9"))
	assert.Len(t, m.Snapshot().Users, 2)
}
