//go:build integration

package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/JonMunkholm/painel/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testDSN returns CI_DATABASE_URL when set, otherwise starts a throwaway
// PostgreSQL container.
func testDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("CI_DATABASE_URL"); dsn != "" {
		t.Log("using external PostgreSQL from CI_DATABASE_URL")
		return dsn
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("painel"),
		postgres.WithUsername("painel"),
		postgres.WithPassword("painel"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestIntegration_UserStore(t *testing.T) {
	ctx := context.Background()
	dsn := testDSN(t)

	require.NoError(t, Migrate(dsn))
	require.NoError(t, Migrate(dsn), "second run is a no-op")

	pool, err := Connect(ctx, config.DatabaseConfig{
		URL:             dsn,
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewUserStore(pool)
	u := auth.User{
		ID:           uuid.New(),
		Nome:         "Maria",
		Email:        "maria-" + uuid.NewString()[:8] + "@example.com",
		Documento:    "12345678901",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuu",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Create(ctx, u))

	got, err := store.FindByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Documento, got.Documento)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))

	got, err = store.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	dup := u
	dup.ID = uuid.New()
	assert.ErrorIs(t, store.Create(ctx, dup), auth.ErrEmailTaken)

	_, err = store.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	bad := u
	bad.ID = uuid.New()
	bad.Email = "other-" + bad.Email
	bad.Documento = "123.456"
	assert.Error(t, store.Create(ctx, bad), "documento must be digits only")
}
