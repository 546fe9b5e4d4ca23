package model

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered account. Only the bcrypt hash of the password is kept.
type User struct {
	Username     string
	PasswordHash string
}

// NewUser hashes password with the given bcrypt cost.
func NewUser(username, password string, cost int) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &User{Username: username, PasswordHash: string(hash)}, nil
}

// Authenticate reports whether candidate matches the stored password.
func (u *User) Authenticate(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

func (u *User) String() string {
	return fmt.Sprintf("User(username=%s)", u.Username)
}
