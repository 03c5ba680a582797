package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/painel/internal/mask"
	"github.com/google/uuid"
)

var (
	// ErrMissingCredentials is returned when email or senha is empty.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned for malformed, forged or revoked tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for well-formed tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidDocumento is returned when a seeded CPF is not 11 digits.
	ErrInvalidDocumento = errors.New("invalid documento: CPF must have 11 digits")
)

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Usuario   Usuario   `json:"usuario"`
}

// Service performs login, verification and logout.
type Service struct {
	users   UserStore
	tokens  *Tokens
	revoked Revocations

	checkPassword func(hash, senha string) error
}

// NewService wires a Service.
func NewService(users UserStore, tokens *Tokens, revoked Revocations) *Service {
	return &Service{users: users, tokens: tokens, revoked: revoked, checkPassword: CheckPassword}
}

// Login checks the credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, senha string) (Session, error) {
	email = NormalizeEmail(email)
	if email == "" || senha == "" {
		return Session{}, ErrMissingCredentials
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Unknown emails pay the same bcrypt cost as wrong passwords.
			_ = s.checkPassword(dummyHash(), senha)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("login lookup: %w", err)
	}

	if err := s.checkPassword(u.PasswordHash, senha); err != nil {
		return Session{}, err
	}

	token, claims, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Usuario:   u.Usuario(),
	}, nil
}

// Verify validates a token and returns the account it belongs to.
func (s *Service) Verify(ctx context.Context, token string) (Usuario, error) {
	claims, err := s.authenticate(ctx, token)
	if err != nil {
		return Usuario{}, err
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Usuario{}, ErrInvalidToken
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Usuario{}, ErrInvalidToken
		}
		return Usuario{}, fmt.Errorf("verify lookup: %w", err)
	}
	return u.Usuario(), nil
}

// Logout revokes token until it expires. Revoking an already invalid token
// reports the validation error.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.authenticate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// EnsureAdmin creates the account if no user with that email exists.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, nome, email, senha, documento string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" || senha == "" {
		return false, ErrMissingCredentials
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, fmt.Errorf("seed lookup: %w", err)
	}

	digits := mask.Digits(documento)
	if documento != "" {
		if l, _ := mask.LayoutFor(mask.CPF); len(digits) != l.MaxDigits() {
			return false, ErrInvalidDocumento
		}
	}

	hash, err := HashPassword(senha)
	if err != nil {
		return false, err
	}

	err = s.users.Create(ctx, User{
		ID:           uuid.New(),
		Nome:         strings.TrimSpace(nome),
		Email:        email,
		Documento:    digits,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, fmt.Errorf("seed create: %w", err)
	}
	return true, nil
}

// authenticate parses a token and rejects revoked ones.
func (s *Service) authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
