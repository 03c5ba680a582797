package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/JonMunkholm/painel/internal/config"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/web"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userStore struct {
	mu    sync.Mutex
	users []auth.User
}

func (s *userStore) FindByEmail(_ context.Context, email string) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (s *userStore) FindByID(_ context.Context, id uuid.UUID) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (s *userStore) Create(_ context.Context, u auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
	return nil
}

func startServer(t *testing.T) string {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Auth:   config.AuthConfig{JWTSecret: "cli-test-key-0123456789abcdefghijk", Issuer: "painel", TokenTTL: time.Hour},
	}
	revoked := auth.NewMemoryRevocations()
	authSvc := auth.NewService(&userStore{}, auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL), revoked)
	svc := core.NewService(authSvc, revoked)
	require.NoError(t, svc.SeedAdmin(context.Background(), "Maria Admin", "admin@example.com", "s3nha-forte", "12345678901"))

	ts := httptest.NewServer(web.NewServer(svc, cfg).Router())
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMaskCmd(t *testing.T) {
	out, err := run(t, "", "mask", "cnpj", "12345678000123", "12.345")
	require.NoError(t, err)
	assert.Equal(t, "12.345.678/0001-23\n12.345\n", out)

	out, err = run(t, "", "mask", "CPF", "123.456.789-01999")
	require.NoError(t, err)
	assert.Equal(t, "123.456.789-01\n", out)

	out, err = run(t, "", "mask", "--json", "rg", "123456789")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"123456789","kind":"RG","formatted":"12.345.678-9","complete":false}`, out)

	_, err = run(t, "", "mask", "cnh", "123")
	require.Error(t, err)
	assert.Contains(t, describe(err), "MASK001")
}

func TestKindsCmd(t *testing.T) {
	out, err := run(t, "", "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "DDD.DDD.DDD-DD")
	assert.Contains(t, out, "DD.DDD.DDD/DDDD-DD")
}

func TestSessionCmds(t *testing.T) {
	url := startServer(t)
	tokenFile := filepath.Join(t.TempDir(), "token")
	common := []string{"--server", url, "--token-file", tokenFile}

	_, err := run(t, "", append([]string{"verify"}, common...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "painelctl login")

	_, err = run(t, "", append([]string{"login", "--email", "admin@example.com", "--senha", "errada"}, common...)...)
	require.Error(t, err)
	assert.Contains(t, describe(err), "AUTH001")

	out, err := run(t, "s3nha-forte\n", append([]string{"login", "--email", "admin@example.com"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Maria Admin <admin@example.com>")

	out, err = run(t, "", append([]string{"verify"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.com")
	assert.Contains(t, out, "123.456.789-01")

	out, err = run(t, "", append([]string{"logout"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Sessão encerrada")

	_, err = run(t, "", append([]string{"verify"}, common...)...)
	require.Error(t, err, "token file is removed on logout")
}
