package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"somweb-bridge/internal/ports"
)

// Session owns the controller's webtoken and the authenticated portal page.
// All door entities share one session; only the session writes the token.
type Session struct {
	client ports.DeviceClient
	log    *zap.Logger

	mu    sync.RWMutex
	token string
	page  string
}

func NewSession(client ports.DeviceClient, log *zap.Logger) *Session {
	return &Session{client: client, log: log.Named("session")}
}

// Authenticate logs in and stores the new token and page.
// On failure the previously held token is left untouched.
func (s *Session) Authenticate(ctx context.Context) error {
	res, err := s.client.Authenticate(ctx)
	if err != nil {
		return err
	}
	if res.Token == "" {
		return fmt.Errorf("authentication returned an empty token")
	}

	s.mu.Lock()
	s.token = res.Token
	s.page = res.Page
	s.mu.Unlock()
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Page returns the portal page captured at the last successful login.
func (s *Session) Page() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

func (s *Session) IsAlive(ctx context.Context) bool {
	return s.client.IsAlive(ctx)
}

// Reconnect re-authenticates against a reachable controller.
// An unreachable device short-circuits without an authentication attempt.
func (s *Session) Reconnect(ctx context.Context) bool {
	if !s.client.IsAlive(ctx) {
		s.log.Warn("device not reachable, skipping re-authentication")
		return false
	}
	if err := s.Authenticate(ctx); err != nil {
		s.log.Warn("re-authentication failed", zap.Error(err))
		return false
	}
	return true
}
