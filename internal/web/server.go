// Package web provides the HTTP server of the panel: the login and
// documentos pages, the auth API and the mask API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/painel/internal/config"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/logging"
	"github.com/JonMunkholm/painel/internal/mask"
	"github.com/JonMunkholm/painel/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether a dependency is reachable. *pgxpool.Pool is one.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option customizes a Server.
type Option func(*Server)

// WithPinger adds a dependency checked by /healthz.
func WithPinger(name string, p Pinger) Option {
	return func(s *Server) {
		s.pingers[name] = p
	}
}

// Server is the HTTP server of the panel.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	metrics *Metrics
	limiter *middleware.Limiter
	fields  *mask.Binder
	pingers map[string]Pinger
}

// NewServer creates a Server and attaches the documentos page fields.
func NewServer(service *core.Service, cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
		metrics: NewMetrics(),
		limiter: middleware.NewLimiter(cfg.Rate.LoginPerMinute, cfg.Rate.LoginBurst),
		fields:  mask.NewBinder(),
		pingers: make(map[string]Pinger),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter.OnLimited = s.metrics.loginThrottled

	for _, f := range documentFields {
		if kind, ok := s.fields.Attach(f.Field); ok {
			slog.Debug("document field attached", "field", f.Key(), "kind", kind)
		}
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(s.metrics.Middleware)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(s.securityHeaders)
}

func (s *Server) setupRoutes() {
	limited := s.loginLimit

	// Pages
	s.router.Get("/", s.handleLoginPage)
	s.router.With(limited).Post("/login", s.handleLoginSubmit)
	s.router.Post("/logout", s.handleLogoutSubmit)
	s.router.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/documentos", s.handleDocumentos)
		r.Post("/documentos", s.handleDocumentosSubmit)
	})

	// Operations
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(noStore)
			r.With(limited).Post("/login", s.handleAPILogin)
			r.With(middleware.BearerAuth(s.service)).Get("/verify", s.handleAPIVerify)
			r.Post("/logout", s.handleAPILogout)
		})

		r.Post("/mask", s.handleMask)
		r.Post("/mask/fields", s.handleMaskFields)
		r.Get("/mask/kinds", s.handleMaskKinds)
	})
}

// loginLimit throttles login attempts per client IP when enabled.
func (s *Server) loginLimit(next http.Handler) http.Handler {
	if !s.cfg.Rate.Enabled {
		return next
	}
	return s.limiter.Middleware(next)
}

// StartJanitors starts background cleanup owned by the server. They stop
// when ctx is cancelled.
func (s *Server) StartJanitors(ctx context.Context) {
	s.limiter.StartJanitor(ctx, time.Minute)
}

// Start listens on the configured address. After Shutdown it returns
// http.ErrServerClosed.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for active requests.
// Calling it before Start makes a later Start return at once.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.cfg.Security.EnableCSP {
			h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'")
		}
		next.ServeHTTP(w, r)
	})
}

// noStore keeps tokens out of shared caches.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// handleHealth pings every registered dependency.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.pingers))
	status := http.StatusOK
	for name, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "unhealthy"
			status = http.StatusServiceUnavailable
			logging.FromContext(r.Context()).Warn("health check failed", "dependency", name, "error", err)
			continue
		}
		checks[name] = "healthy"
	}

	result := "ok"
	if status != http.StatusOK {
		result = "degraded"
	}
	writeJSON(w, status, map[string]any{
		"status": result,
		"checks": checks,
		"logins": s.service.LoginStatus(),
	})
}
