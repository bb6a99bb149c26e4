package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/briefly/internal/core/backend"
)

const (
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"
)

// Client calls the backend auth endpoints.
type Client struct {
	backend *backend.Client
	now     func() time.Time
}

// NewClient creates a Client on top of the shared backend transport.
func NewClient(b *backend.Client) *Client {
	return &Client{backend: b, now: time.Now}
}

type sessionResponse struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	ExpiresIn int64  `json:"expiresIn,omitempty"` // seconds
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Session, error) {
	var resp sessionResponse
	if err := c.backend.PostJSON(ctx, LoginPath, creds, &resp); err != nil {
		return nil, mapStatus(err)
	}
	return c.session(resp)
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, reg Registration) (*Session, error) {
	var resp sessionResponse
	if err := c.backend.PostJSON(ctx, RegisterPath, reg, &resp); err != nil {
		return nil, mapStatus(err)
	}
	return c.session(resp)
}

func (c *Client) session(resp sessionResponse) (*Session, error) {
	if resp.Token == "" {
		return nil, errors.New("backend returned no session token")
	}

	now := c.now()
	s := &Session{
		ID:        uuid.NewString(),
		Token:     resp.Token,
		User:      resp.User,
		CreatedAt: now,
	}
	if resp.ExpiresIn > 0 {
		s.ExpiresAt = now.Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return s, nil
}

func mapStatus(err error) error {
	var se *backend.StatusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidCredentials
	case http.StatusConflict:
		return ErrAccountExists
	}
	return err
}
