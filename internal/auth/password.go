package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Gate implements the shared household password check using bcrypt.
// There are no per-member accounts: one password unlocks the whole
// household, and a successful login yields a session token.
type Gate struct {
	hash []byte
}

// NewGate creates a gate for the configured household password.
// The plaintext is hashed once here and never kept around.
func NewGate(password string) (*Gate, error) {
	if err := ValidateCredential(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &Gate{hash: hash}, nil
}

// ValidateCredential checks if the password meets minimum requirements.
func ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Authenticate verifies the household password.
func (g *Gate) Authenticate(credential string) error {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(credential)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
