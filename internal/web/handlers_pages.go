package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/logging"
	"github.com/JonMunkholm/painel/internal/mask"
	"github.com/JonMunkholm/painel/internal/web/middleware"
	"github.com/JonMunkholm/painel/internal/web/templates"
	"github.com/a-h/templ"
)

// sessionCookie holds the bearer token for the HTML pages.
const sessionCookie = "painel_token"

// documentField is an input of the documentos page.
type documentField struct {
	mask.Field
	Label string
}

// documentFields are the inputs of the documentos page. Both CNPJ ids are
// accepted explicitly; the others are detected from their ids.
var documentFields = []documentField{
	{Field: mask.Field{ID: "industriaCNPJ", Placeholder: "00.000.000/0000-00"}, Label: "CNPJ da indústria"},
	{Field: mask.Field{ID: "pjCnpj", Placeholder: "00.000.000/0000-00"}, Label: "CNPJ da empresa"},
	{Field: mask.Field{ID: "cpfResponsavel", Placeholder: "000.000.000-00"}, Label: "CPF do responsável"},
	{Field: mask.Field{ID: "rgResponsavel", Placeholder: "00.000.000-00"}, Label: "RG do responsável"},
	{Field: mask.Field{ID: "razaoSocial"}, Label: "Razão social"},
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if _, err := s.service.Verify(r.Context(), c.Value); err == nil {
			http.Redirect(w, r, "/documentos", http.StatusSeeOther)
			return
		}
	}
	s.render(w, r, http.StatusOK, templates.LoginPage(templates.LoginParams{}))
}

// handleLoginSubmit is the form twin of POST /api/auth/login. Errors are
// shown on the login page; success sets the session cookie.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, errors.Join(errBadRequest, err), http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")

	sess, err := s.login(r, email, r.PostForm.Get("senha"))
	if err != nil {
		msg := core.MapError(err)
		s.render(w, r, statusFor(err), templates.LoginPage(templates.LoginParams{
			Email: email,
			Alert: templates.ErrorAlert(msg.Message, msg.Action, msg.Code),
		}))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/documentos", http.StatusSeeOther)
}

func (s *Server) handleLogoutSubmit(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if err := s.service.Logout(withRequestMeta(r), c.Value); err != nil {
			logging.FromContext(r.Context()).Debug("logout of invalid session", "error", err)
		}
	}
	s.clearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// requireSession redirects to the login page unless the session cookie
// holds a valid token.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil || c.Value == "" {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		u, err := s.service.Verify(r.Context(), c.Value)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrTokenExpired) {
				s.respondError(w, r, err, statusFor(err))
				return
			}
			s.clearSession(w)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(middleware.WithUsuario(r.Context(), u)))
	})
}

func (s *Server) handleDocumentos(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UsuarioFrom(r.Context())
	s.render(w, r, http.StatusOK, templates.DocumentosPage(templates.DocumentosParams{
		Nome:   u.Nome,
		Fields: s.fieldViews(nil),
	}))
}

// handleDocumentosSubmit re-renders the form with document values masked.
func (s *Server) handleDocumentosSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, errors.Join(errBadRequest, err), http.StatusBadRequest)
		return
	}

	inputs := make([]core.FieldInput, len(documentFields))
	for i, f := range documentFields {
		inputs[i] = core.FieldInput{Field: f.Field, Value: r.PostForm.Get(f.Key())}
	}
	results := core.FormatWith(s.fields, inputs)
	for _, res := range results {
		if res.Masked && res.Value != "" {
			s.metrics.formatted(res.Kind.String())
		}
	}

	u, _ := middleware.UsuarioFrom(r.Context())
	s.render(w, r, http.StatusOK, templates.DocumentosPage(templates.DocumentosParams{
		Nome:   u.Nome,
		Fields: s.fieldViews(results),
		Saved:  true,
	}))
}

// fieldViews builds the page inputs, filled from results when given.
func (s *Server) fieldViews(results []core.FieldResult) []templates.FieldView {
	views := make([]templates.FieldView, len(documentFields))
	for i, f := range documentFields {
		v := templates.FieldView{ID: f.Key(), Label: f.Label, Placeholder: f.Placeholder}
		if kind, ok := s.fields.Attached(f.Key()); ok {
			v.Kind = kind.String()
		}
		if i < len(results) {
			v.Value = results[i].Formatted
			v.Complete = results[i].Complete
		}
		views[i] = v
	}
	return views
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}
