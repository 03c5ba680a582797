package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/web/middleware"
)

// withRequestMeta returns r's context carrying the client IP and user agent
// for login logging. TrustedRealIP has already resolved the IP.
func withRequestMeta(r *http.Request) context.Context {
	return core.WithRequestMeta(r.Context(), core.RequestMeta{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
}
