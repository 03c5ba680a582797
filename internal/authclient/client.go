// Package authclient is a Go client of the panel's auth API:
//
//	POST /api/auth/login  {email, senha} -> {success, data:{token, usuario}}
//	GET  /api/auth/verify Authorization: Bearer <token>
//	POST /api/auth/logout Authorization: Bearer <token>
//
// It mirrors what the login form does: send credentials, keep the token,
// and turn every failure into an error that core.MapError can display.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/painel/internal/auth"
)

var (
	// ErrInvalidCredentials is returned for a 401 login answer.
	ErrInvalidCredentials = auth.ErrInvalidCredentials

	// ErrUnavailable is returned when the server cannot be reached or
	// answers with something that is not the API envelope.
	ErrUnavailable = errors.New("auth service unavailable")

	// ErrRejected matches every *RejectedError.
	ErrRejected = errors.New("request rejected")
)

// RejectedError is a well-formed {success:false} answer other than bad
// login credentials.
type RejectedError struct {
	Status  int
	Code    string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("request rejected (%d %s): %s", e.Status, e.Code, e.Message)
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}

// envelope is the API response body.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// Client talks to one panel server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the server at baseURL ("http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, senha string) (auth.Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "senha": senha})
	if err != nil {
		return auth.Session{}, err
	}

	var sess auth.Session
	err = c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &sess)
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) && rej.Status == http.StatusUnauthorized {
			return auth.Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, rej.Message)
		}
		return auth.Session{}, err
	}
	if sess.Token == "" {
		return auth.Session{}, fmt.Errorf("%w: login answer without token", ErrUnavailable)
	}
	return sess, nil
}

// Verify returns the account a token belongs to.
func (c *Client) Verify(ctx context.Context, token string) (auth.Usuario, error) {
	var data struct {
		Usuario auth.Usuario `json:"usuario"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", token, nil, &data); err != nil {
		return auth.Usuario{}, err
	}
	return data.Usuario, nil
}

// Logout revokes token on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err != nil {
		return fmt.Errorf("%w: %s answered %d without a JSON envelope", ErrUnavailable, path, resp.StatusCode)
	}

	if !env.Success || resp.StatusCode/100 != 2 {
		return &RejectedError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decode %s data: %v", ErrUnavailable, path, err)
		}
	}
	return nil
}
