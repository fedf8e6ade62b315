package client

import "time"

// User is a user record as returned by the account API.
type User struct {
	// ID is the unique identifier assigned by the server.
	ID string `json:"_id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is the login email address.
	Email string `json:"email"`

	// CreatedAt is when the account was created (UTC).
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials are the fields sent to the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration are the fields sent to the register endpoint.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate carries the editable user fields for update operations.
// Empty fields are omitted from the request and left unchanged by the server.
type UserUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// authPayload is the decoded success payload of login/register: a bearer
// token alongside the user's own fields.
type authPayload struct {
	Token string `json:"token"`
	User
}

// userEnvelope wraps a single user record: {"data": {...}}.
type userEnvelope struct {
	Data User `json:"data"`
}

// userListEnvelope wraps a list of user records: {"data": [...]}.
type userListEnvelope struct {
	Data []User `json:"data"`
}

// authEnvelope wraps the login/register payload: {"data": {"token": ..., ...}}.
type authEnvelope struct {
	Data authPayload `json:"data"`
}

// errorBody is the shape of an error response. The server writes
// {"error": msg}; {"message": msg} is accepted for compatibility with
// older deployments of the backend.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// text returns whichever message field is populated.
func (b errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}
