package core

// error_messages.go maps technical errors to messages shown to the operator.
//
// Codes are grouped by category and can be quoted to support:
//
// # Authentication (AUTH001-AUTH099)
//
//	AUTH001 - Invalid credentials: e-mail or senha did not match an account
//	          Patterns: "invalid credentials"
//	AUTH002 - Missing credentials: e-mail or senha left empty
//	          Patterns: "missing credentials"
//	AUTH003 - Session expired: the token is past its expiry
//	          Patterns: "token expired"
//	AUTH004 - Invalid session: malformed, forged or revoked token
//	          Patterns: "invalid token"
//	AUTH005 - Account exists: e-mail already registered
//	          Patterns: "email already registered"
//	AUTH006 - Password too long: more than 72 bytes
//	          Patterns: "password is too long"
//
// # Documents (MASK001-MASK099)
//
//	MASK001 - Unknown kind: document kind is not CPF, RG or CNPJ
//	          Patterns: "unknown document kind"
//	MASK002 - Invalid CPF: seeded CPF does not have 11 digits
//	          Patterns: "invalid documento"
//
// # Network (NET001-NET099)
//
//	NET001 - Unavailable: the auth service or database cannot be reached
//	         Patterns: "auth service unavailable", "connection refused", "no such host"
//	NET002 - Interrupted: the connection dropped mid-request
//	         Patterns: "connection reset", "broken pipe"
//	NET003 - Timeout
//	         Patterns: "context deadline exceeded", "timeout"
//	NET004 - Cancelled
//	         Patterns: "context canceled"
//
// # Requests (REQ001-REQ099)
//
//	REQ001 - Malformed request body
//	         Patterns: "invalid request body"
//
// # Rate limiting (RATE001)
//
//	RATE001 - Too many attempts
//	          Patterns: "too many concurrent logins", "rate limit"
//
// # Default (ERR000)
//
//	ERR000 - Unexpected error; check the server log for the original error.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgUnavailable = UserMessage{
		Message: "Erro de conexão com o servidor",
		Action:  "Verifique sua conexão e tente novamente",
		Code:    "NET001",
	}
	msgInterrupted = UserMessage{
		Message: "A conexão foi interrompida",
		Action:  "Tente novamente",
		Code:    "NET002",
	}
	msgTimeout = UserMessage{
		Message: "O servidor demorou demais para responder",
		Action:  "Tente novamente em alguns instantes",
		Code:    "NET003",
	}
)

var errorPatterns = []errorPattern{
	// Authentication
	{
		pattern: "invalid credentials",
		msg: UserMessage{
			Message: "E-mail ou senha inválidos",
			Action:  "Confira os dados e tente novamente",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "missing credentials",
		msg: UserMessage{
			Message: "Informe e-mail e senha",
			Action:  "Preencha os dois campos",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "token expired",
		msg: UserMessage{
			Message: "Sua sessão expirou",
			Action:  "Entre novamente",
			Code:    "AUTH003",
		},
	},
	{
		pattern: "invalid token",
		msg: UserMessage{
			Message: "Sessão inválida",
			Action:  "Entre novamente",
			Code:    "AUTH004",
		},
	},
	{
		pattern: "email already registered",
		msg: UserMessage{
			Message: "Já existe uma conta com este e-mail",
			Action:  "Use outro e-mail",
			Code:    "AUTH005",
		},
	},
	{
		pattern: "password is too long",
		msg: UserMessage{
			Message: "Senha muito longa",
			Action:  "Use no máximo 72 caracteres",
			Code:    "AUTH006",
		},
	},

	// Documents
	{
		pattern: "unknown document kind",
		msg: UserMessage{
			Message: "Tipo de documento desconhecido",
			Action:  "Use CPF, RG ou CNPJ",
			Code:    "MASK001",
		},
	},
	{
		pattern: "invalid documento",
		msg: UserMessage{
			Message: "CPF inválido",
			Action:  "Informe os 11 dígitos do CPF",
			Code:    "MASK002",
		},
	},

	// Network
	{pattern: "auth service unavailable", msg: msgUnavailable},
	{pattern: "connection refused", msg: msgUnavailable},
	{pattern: "no such host", msg: msgUnavailable},
	{pattern: "connection reset", msg: msgInterrupted},
	{pattern: "broken pipe", msg: msgInterrupted},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "A requisição foi cancelada",
			Action:  "Tente novamente",
			Code:    "NET004",
		},
	},

	// Requests
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "Requisição inválida",
			Action:  "Envie um JSON válido",
			Code:    "REQ001",
		},
	},

	// Rate limiting
	{
		pattern: "too many concurrent logins",
		msg: UserMessage{
			Message: "Muitas tentativas",
			Action:  "Aguarde um momento antes de tentar novamente",
			Code:    "RATE001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Muitas tentativas",
			Action:  "Aguarde um momento antes de tentar novamente",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "Ocorreu um erro inesperado",
	Action:  "Tente novamente ou contate o suporte",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or ERR000 when nothing matches.
//
//	msg := MapError(auth.ErrInvalidCredentials)
//	// msg.Code == "AUTH001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a display string: "Message (Código: XXX). Action".
func FormatUserError(err error) string {
	return NewUserError(err).Display()
}

// IsUserFacing reports whether err matches a known pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
// Error() returns the user message; Unwrap() the technical error.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// Display renders the message with its code and action for an operator.
// A nil UserError displays as the empty string.
func (e *UserError) Display() string {
	if e == nil || e.User.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Código: %s). %s", e.User.Message, e.User.Code, e.User.Action)
}

// NewUserError maps err and wraps it. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
