package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/web/middleware"
)

// loginRequest is the body of POST /api/auth/login.
type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// handleAPILogin answers {success:true, data:{token, usuario}}.
func (s *Server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sess, err := s.login(r, req.Email, req.Senha)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: sess})
}

// handleAPIVerify runs behind BearerAuth.
func (s *Server) handleAPIVerify(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UsuarioFrom(r.Context())
	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Data:    map[string]auth.Usuario{"usuario": u},
	})
}

// handleAPILogout revokes the bearer token.
func (s *Server) handleAPILogout(w http.ResponseWriter, r *http.Request) {
	err := s.service.Logout(withRequestMeta(r), middleware.BearerToken(r))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true})
}

// login runs a login attempt and records its outcome.
func (s *Server) login(r *http.Request, email, senha string) (auth.Session, error) {
	sess, err := s.service.Login(withRequestMeta(r), email, senha)
	switch {
	case err == nil:
		s.metrics.loginResult("success")
	case strings.HasPrefix(core.MapError(err).Code, "AUTH"):
		s.metrics.loginResult("rejected")
	default:
		s.metrics.loginResult("error")
	}
	return sess, err
}
