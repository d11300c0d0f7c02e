package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/snapboard/webclient/internal/core/domain"
)

type stubAuthAPI struct {
	loginFn    func(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	registerFn func(ctx context.Context, reg domain.Registration) error
	meFn       func(ctx context.Context) (*domain.User, error)

	meCalls       atomic.Int32
	registerCalls atomic.Int32
}

func (s *stubAuthAPI) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubAuthAPI) Register(ctx context.Context, reg domain.Registration) error {
	s.registerCalls.Add(1)
	if s.registerFn == nil {
		return nil
	}
	return s.registerFn(ctx, reg)
}

func (s *stubAuthAPI) Me(ctx context.Context) (*domain.User, error) {
	s.meCalls.Add(1)
	return s.meFn(ctx)
}

type recordingListener struct {
	mu      sync.Mutex
	started []string
	ended   []string
}

func (l *recordingListener) SessionStarted(key string) {
	l.mu.Lock()
	l.started = append(l.started, key)
	l.mu.Unlock()
}

func (l *recordingListener) SessionEnded(key string) {
	l.mu.Lock()
	l.ended = append(l.ended, key)
	l.mu.Unlock()
}

func (l *recordingListener) counts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.started), len(l.ended)
}

func fullUser() *domain.User {
	return &domain.User{ID: 7, Username: "ana", Email: "ana@example.com", Fullname: "Ana Lima", Role: domain.RoleManager}
}
