package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/logging"
)

// Verifier resolves a bearer token to its account.
type Verifier interface {
	Verify(ctx context.Context, token string) (auth.Usuario, error)
}

type ctxKey struct{}

// WithUsuario stores the authenticated account in ctx.
func WithUsuario(ctx context.Context, u auth.Usuario) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UsuarioFrom returns the account stored by BearerAuth.
func UsuarioFrom(ctx context.Context) (auth.Usuario, bool) {
	u, ok := ctx.Value(ctxKey{}).(auth.Usuario)
	return u, ok
}

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// BearerAuth rejects requests without a valid bearer token with 401 and the
// API error envelope. Accepted requests carry the account in their context.
func BearerAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				logging.FromContext(r.Context()).Warn("auth: missing bearer token",
					"path", r.URL.Path,
					"method", r.Method,
					"ip", ClientIP(r),
				)
				writeUnauthorized(w, auth.ErrInvalidToken)
				return
			}

			u, err := v.Verify(r.Context(), token)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUsuario(r.Context(), u)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	msg := core.MapError(err)
	status := http.StatusUnauthorized
	if !strings.HasPrefix(msg.Code, "AUTH") {
		// the verifier itself failed (store or redis down)
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="painel"`)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": msg.Message,
		"action":  msg.Action,
		"code":    msg.Code,
	})
}
