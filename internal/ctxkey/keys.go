// Package ctxkey defines shared context key types used across multiple packages.
// This package should have no dependencies on other internal packages to avoid import cycles.
package ctxkey

// UserKey is the context key type for the authenticated user.
// Used by the bearer middleware to store the *user.User resolved from the
// request token, and by handlers to retrieve it.
type UserKey struct{}
