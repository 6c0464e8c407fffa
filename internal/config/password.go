// Package config provides admin password verification functionality.
package config

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier checks operator-supplied passwords against the configured
// admin credential. APP_PASSWORD may hold either a bcrypt hash (preferred for
// deployments) or a plaintext value (local development).
type PasswordVerifier struct {
	stored string
}

// NewPasswordVerifier creates a verifier for the configured admin password.
func NewPasswordVerifier(stored string) *PasswordVerifier {
	return &PasswordVerifier{stored: stored}
}

// Verify reports whether the supplied password matches the configured one.
// An empty configured password never matches: access stays closed rather
// than open when configuration is missing.
func (v *PasswordVerifier) Verify(password string) bool {
	if v.stored == "" || password == "" {
		return false
	}

	if strings.HasPrefix(v.stored, "$2a$") || strings.HasPrefix(v.stored, "$2b$") || strings.HasPrefix(v.stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(v.stored), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(v.stored), []byte(password)) == 1
}

// HashPassword hashes a plaintext password with bcrypt. Used by deployment
// tooling to produce a value suitable for APP_PASSWORD.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
