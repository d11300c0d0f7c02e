package middleware

import (
	"context"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

type stubStore struct {
	key     string
	session domain.Session
}

func (s *stubStore) Key() string                   { return s.key }
func (s *stubStore) Snapshot() domain.Session      { return s.session }
func (s *stubStore) Bootstrap(context.Context)     {}
func (s *stubStore) Logout(context.Context)        { s.session.User = nil }
func (s *stubStore) Refresh(context.Context) error { return nil }
func (s *stubStore) Register(context.Context, domain.Registration) error {
	return nil
}
func (s *stubStore) Login(context.Context, domain.Credentials) (*domain.User, error) {
	return s.session.User, nil
}

type stubManager struct {
	store    *stubStore
	acquired []string
}

func (m *stubManager) Acquire(_ context.Context, cookie string) ports.SessionStore {
	m.acquired = append(m.acquired, cookie)
	return m.store
}
func (m *stubManager) Invalidate(string)   {}
func (m *stubManager) ActiveSessions() int { return 1 }
