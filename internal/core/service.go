package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/JonMunkholm/painel/internal/logging"
	"github.com/JonMunkholm/painel/internal/mask"
)

// Service provides the document and login operations.
type Service struct {
	auth    *auth.Service
	revoked auth.Revocations
	logins  *LoginLimiter
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLoginLimiter replaces the default login concurrency limit.
func WithLoginLimiter(l *LoginLimiter) ServiceOption {
	return func(s *Service) { s.logins = l }
}

// NewService creates a Service. revoked must be the store authSvc uses;
// the janitor purges it when it supports purging.
func NewService(authSvc *auth.Service, revoked auth.Revocations, opts ...ServiceOption) *Service {
	s := &Service{auth: authSvc, revoked: revoked}
	for _, opt := range opts {
		opt(s)
	}
	if s.logins == nil {
		s.logins = NewLoginLimiter(DefaultMaxConcurrentLogins, DefaultLoginWait)
	}
	return s
}

// DocumentResult is a formatted document value.
type DocumentResult struct {
	Value     string    `json:"value"`
	Kind      mask.Kind `json:"kind"`
	Formatted string    `json:"formatted"`
	Complete  bool      `json:"complete"`
}

// FormatDocument formats value as the named kind.
func (s *Service) FormatDocument(value, kind string) (DocumentResult, error) {
	k, err := mask.ParseKind(kind)
	if err != nil {
		return DocumentResult{}, err
	}
	return DocumentResult{
		Value:     value,
		Kind:      k,
		Formatted: mask.Format(value, k),
		Complete:  mask.Complete(value, k),
	}, nil
}

// FieldInput is a submitted form field.
type FieldInput struct {
	mask.Field
	Value string `json:"value"`
}

// FieldResult is a field after masking. Kind is empty and Masked false for
// fields that are not document inputs.
type FieldResult struct {
	Key       string    `json:"key"`
	Kind      mask.Kind `json:"kind,omitempty"`
	Value     string    `json:"value"`
	Formatted string    `json:"formatted"`
	Masked    bool      `json:"masked"`
	Complete  bool      `json:"complete"`
}

// FormatFields detects document fields among fields and formats their
// values. Fields are attached once by key, so a repeated key is formatted
// with the kind detected for its first occurrence. Results keep input order.
func (s *Service) FormatFields(fields []FieldInput) []FieldResult {
	binder := mask.NewBinder()
	for _, f := range fields {
		binder.Attach(f.Field)
	}
	return formatWith(binder, fields)
}

// FormatWith formats fields using an existing binder, for pages whose
// fields are attached up front.
func FormatWith(binder *mask.Binder, fields []FieldInput) []FieldResult {
	return formatWith(binder, fields)
}

func formatWith(binder *mask.Binder, fields []FieldInput) []FieldResult {
	results := make([]FieldResult, 0, len(fields))
	for _, f := range fields {
		key := f.Key()
		r := FieldResult{Key: key, Value: f.Value, Formatted: f.Value}
		if kind, ok := binder.Attached(key); ok {
			r.Kind = kind
			r.Formatted = mask.Format(f.Value, kind)
			r.Masked = true
			r.Complete = mask.Complete(f.Value, kind)
		}
		results = append(results, r)
	}
	return results
}

// Login checks credentials and logs the attempt.
func (s *Service) Login(ctx context.Context, email, senha string) (auth.Session, error) {
	meta := RequestMetaFrom(ctx)
	log := logging.WithFields(ctx,
		"email", auth.NormalizeEmail(email),
		"ip", meta.IP,
		"user_agent", meta.UserAgent,
	)

	if err := s.logins.Acquire(ctx); err != nil {
		log.Warn("login queue full", "error", err, "active", s.logins.Active())
		return auth.Session{}, fmt.Errorf("login: %w", err)
	}
	sess, err := s.auth.Login(ctx, email, senha)
	s.logins.Release()
	if err != nil {
		msg := MapError(err)
		if msg.Code == defaultMessage.Code || msg.Code == msgUnavailable.Code {
			log.Error("login error", "error", err, "code", msg.Code)
		} else {
			log.Warn("login rejected", "code", msg.Code)
		}
		return auth.Session{}, fmt.Errorf("login: %w", err)
	}

	log.Info("login succeeded", "user_id", sess.Usuario.ID)
	return sess, nil
}

// LoginStatus reports how many logins are running.
func (s *Service) LoginStatus() LoginLimiterStatus {
	return s.logins.Status()
}

// WaitForLogins blocks until in-flight logins finish or ctx is done.
func (s *Service) WaitForLogins(ctx context.Context) error {
	return s.logins.WaitForDrain(ctx)
}

// Verify returns the account behind token.
func (s *Service) Verify(ctx context.Context, token string) (auth.Usuario, error) {
	u, err := s.auth.Verify(ctx, token)
	if err != nil {
		logging.FromContext(ctx).Debug("token rejected", "code", MapError(err).Code)
		return auth.Usuario{}, fmt.Errorf("verify: %w", err)
	}
	return u, nil
}

// Logout revokes token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.auth.Logout(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	logging.FromContext(ctx).Info("logout", "ip", RequestMetaFrom(ctx).IP)
	return nil
}

// SeedAdmin creates the initial account when it does not exist yet.
func (s *Service) SeedAdmin(ctx context.Context, nome, email, senha, documento string) error {
	created, err := s.auth.EnsureAdmin(ctx, nome, email, senha, documento)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		slog.Info("admin account created", "email", auth.NormalizeEmail(email))
	} else {
		slog.Debug("admin account already exists", "email", auth.NormalizeEmail(email))
	}
	return nil
}
