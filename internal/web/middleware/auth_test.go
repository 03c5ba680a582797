package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(ctx context.Context, token string) (auth.Usuario, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (auth.Usuario, error) {
	return f(ctx, token)
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":     "abc",
		"bearer  abc ":   "abc",
		"Basic dXNlcjpw": "",
		"Bearer":         "",
		"":               "",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, BearerToken(req), "header %q", header)
	}
}

func TestBearerAuth(t *testing.T) {
	v := verifierFunc(func(_ context.Context, token string) (auth.Usuario, error) {
		switch token {
		case "good":
			return auth.Usuario{ID: "1", Nome: "Maria"}, nil
		case "expired":
			return auth.Usuario{}, auth.ErrTokenExpired
		case "down":
			return auth.Usuario{}, errors.New("verify lookup: connection refused")
		}
		return auth.Usuario{}, auth.ErrInvalidToken
	})

	h := BearerAuth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UsuarioFrom(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(u.Nome))
	}))

	tests := []struct {
		header   string
		status   int
		wantCode string
	}{
		{"Bearer good", http.StatusOK, ""},
		{"", http.StatusUnauthorized, "AUTH004"},
		{"Bearer forged", http.StatusUnauthorized, "AUTH004"},
		{"Bearer expired", http.StatusUnauthorized, "AUTH003"},
		{"Bearer down", http.StatusServiceUnavailable, "NET001"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.wantCode == "" {
				assert.Equal(t, "Maria", rec.Body.String())
				return
			}
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}
