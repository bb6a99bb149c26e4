package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/colonyops/briefly/internal/core/kv"
)

const sessionKey = "current"

// State holds the process-wide session. It is loaded once from the KV store
// by Init and changed only through Set.
type State struct {
	mu      sync.RWMutex
	store   *kv.TypedKV[Session]
	current *Session
	now     func() time.Time
}

// NewState creates a State persisted in store under the "session" namespace.
func NewState(store kv.KV) *State {
	return &State{
		store: kv.Scoped[Session](store, "session"),
		now:   time.Now,
	}
}

// Init loads the persisted session. An expired session is discarded.
func (s *State) Init(ctx context.Context) error {
	sess, ok, err := s.store.Lookup(ctx, sessionKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok || sess.Expired(s.now()) {
		s.current = nil
		return nil
	}
	s.current = &sess
	return nil
}

// Set replaces the session and persists it. A nil session signs out.
func (s *State) Set(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess == nil {
		if err := s.store.Delete(ctx, sessionKey); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		s.current = nil
		return nil
	}

	var err error
	if sess.ExpiresAt.IsZero() {
		err = s.store.Set(ctx, sessionKey, *sess)
	} else {
		err = s.store.SetTTL(ctx, sessionKey, *sess, sess.ExpiresAt.Sub(s.now()))
	}
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	cp := *sess
	s.current = &cp
	return nil
}

// Current returns a copy of the session, or nil when signed out.
func (s *State) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.current.Expired(s.now()) {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token returns the bearer token, or "" when signed out.
func (s *State) Token() string {
	if sess := s.Current(); sess != nil {
		return sess.Token
	}
	return ""
}
