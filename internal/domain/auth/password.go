// Package auth contains password hashing and bearer token logic for the
// account API.
package auth

import (
	"fmt"

	"github.com/alexedwards/argon2id"
)

// HashPassword hashes a cleartext password with Argon2id using the library
// defaults. The result is a self-describing PHC string.
func HashPassword(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword reports whether the cleartext password matches the stored
// Argon2id hash. A malformed hash is an error, a mismatch is (false, nil).
func VerifyPassword(password, hash string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("compare password hash: %w", err)
	}
	return match, nil
}
