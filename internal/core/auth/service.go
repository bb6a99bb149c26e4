package auth

import (
	"context"

	"github.com/colonyops/briefly/internal/core/logging"
)

// Service runs the login, register and logout flows.
type Service struct {
	client *Client
	state  *State
}

// NewService wires a Client to a State.
func NewService(client *Client, state *State) *Service {
	return &Service{client: client, state: state}
}

// State returns the session state the service updates.
func (s *Service) State() *State { return s.state }

// Login validates creds, signs in and stores the session.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := s.state.Set(ctx, sess); err != nil {
		return nil, err
	}

	l := logging.For(ctx, "auth")
	l.Info().Str("session", sess.ID).Str("user", sess.User.Email).Msg("signed in")
	return sess, nil
}

// Register validates reg, creates the account and stores the session.
func (s *Service) Register(ctx context.Context, reg Registration) (*Session, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.client.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if err := s.state.Set(ctx, sess); err != nil {
		return nil, err
	}

	l := logging.For(ctx, "auth")
	l.Info().Str("session", sess.ID).Str("user", sess.User.Email).Msg("registered")
	return sess, nil
}

// Logout clears the session. It fails with ErrNotAuthenticated when there
// is none.
func (s *Service) Logout(ctx context.Context) error {
	if s.state.Current() == nil {
		return ErrNotAuthenticated
	}
	if err := s.state.Set(ctx, nil); err != nil {
		return err
	}
	l := logging.For(ctx, "auth")
	l.Info().Msg("signed out")
	return nil
}
