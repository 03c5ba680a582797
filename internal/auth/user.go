// Package auth implements the admin login: password checks, bearer tokens
// and token revocation. It speaks the auth API contract
//
//	POST /api/auth/login  {email, senha} -> {success, data:{token, usuario}}
//	GET  /api/auth/verify Authorization: Bearer <token>
//
// without knowing anything about HTTP; internal/web adapts it.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JonMunkholm/painel/internal/mask"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned by a UserStore when no account matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned by a UserStore when creating a duplicate account.
	ErrEmailTaken = errors.New("email already registered")
)

// User is a stored admin account.
type User struct {
	ID           uuid.UUID
	Nome         string
	Email        string // Normalized with NormalizeEmail
	Documento    string // CPF digits only
	PasswordHash string // bcrypt
	CreatedAt    time.Time
}

// Usuario is the public view of a User sent to clients.
type Usuario struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	Documento string `json:"documento,omitempty"`
}

// Usuario renders the public view, with the CPF punctuated.
func (u User) Usuario() Usuario {
	return Usuario{
		ID:        u.ID.String(),
		Nome:      u.Nome,
		Email:     u.Email,
		Documento: mask.Format(u.Documento, mask.CPF),
	}
}

// UserStore persists accounts.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, u User) error
}

// NormalizeEmail trims and lower-cases an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
