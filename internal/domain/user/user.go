// Package user contains the domain types and storage contract for user
// accounts.
package user

import (
	"strings"
	"time"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for this user.
	ID string `json:"_id"`
	// Name is the display name.
	Name string `json:"name"`
	// Email is the login email address, stored lowercased.
	Email string `json:"email"`
	// PasswordHash is the Argon2id hash of the password. Never serialized.
	PasswordHash string `json:"-"`
	// CreatedAt is when the account was created (UTC).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is when the account was last modified (UTC).
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
