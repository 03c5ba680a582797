package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash (over 72 bytes).
var ErrPasswordTooLong = errors.New("password is too long")

// dummyHash is compared against when the email is unknown, so that path
// costs as much as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte("painel-dummy-senha"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy hash: %v", err))
	}
	return string(hashed)
})

// HashPassword returns a bcrypt hash of senha.
func HashPassword(senha string) (string, error) {
	if senha == "" {
		return "", ErrMissingCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether senha matches hash.
// A mismatch returns ErrInvalidCredentials; a malformed hash a wrapped error.
func CheckPassword(hash, senha string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("check password: %w", err)
}
