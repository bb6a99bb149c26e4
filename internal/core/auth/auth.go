// Package auth manages the signed-in session: credential validation, the
// login/register calls to the backend and the process-wide session state.
package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a session.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrInvalidCredentials is returned when the backend rejects a login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountExists is returned when registering an email that is taken.
	ErrAccountExists = errors.New("an account with that email already exists")
)

// MinPasswordLength is the shortest password accepted by the forms.
const MinPasswordLength = 8

// User is the account a session belongs to.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DisplayName returns the name shown in the navbar.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Session is a signed-in session. ID is assigned locally.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Credentials are the login form values.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credentials before they are sent.
func (c Credentials) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("email", c.Email, Email),
		criterio.Run("password", c.Password, Required),
	)
}

// Registration are the register form values.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// Validate checks the registration before it is sent.
func (r Registration) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("name", r.Name, Required),
		criterio.Run("email", r.Email, Email),
		criterio.Run("password", r.Password, Password),
		criterio.Run("confirm_password", r.ConfirmPassword, MatchesPassword(r.Password)),
	)
}

// Required fails on blank input.
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// Email checks for a single bare address.
func Email(s string) error {
	if err := Required(s); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != strings.TrimSpace(s) {
		return fmt.Errorf("must be a valid email address")
	}
	return nil
}

// Password checks the minimum length in characters.
func Password(s string) error {
	if len([]rune(s)) < MinPasswordLength {
		return fmt.Errorf("must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// MatchesPassword returns a validator that requires equality with password.
func MatchesPassword(password string) func(string) error {
	return func(s string) error {
		if s != password {
			return fmt.Errorf("passwords do not match")
		}
		return nil
	}
}
