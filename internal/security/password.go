package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password checks login attempts against a bcrypt hash.
type Password struct {
	hash []byte
}

// NewPassword uses hash when given, otherwise hashes plain.
func NewPassword(hash, plain string) (*Password, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid password hash: %w", err)
		}
		return &Password{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return nil, errors.New("no password configured")
	}
	h, err := HashPassword(plain)
	if err != nil {
		return nil, err
	}
	return &Password{hash: []byte(h)}, nil
}

// Check reports whether attempt matches.
func (p *Password) Check(attempt string) bool {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(attempt)) == nil
}

// HashPassword returns a bcrypt hash for use in NAVDESK_PASSWORD_HASH.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
