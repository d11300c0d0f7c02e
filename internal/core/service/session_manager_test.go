package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/infrastructure/db/memory"
)

func TestKeyFor_HashesCookie(t *testing.T) {
	a, b := KeyFor("cookie-a"), KeyFor("cookie-a")
	if a != b {
		t.Fatal("key derivation must be deterministic")
	}
	if a == "cookie-a" || len(a) != 64 {
		t.Fatalf("expected 64-char hex digest, got %q", a)
	}
	if KeyFor("cookie-b") == a {
		t.Fatal("different cookies must map to different keys")
	}
}

func TestAcquire_SameCookieSameStore(t *testing.T) {
	auth := &stubAuthAPI{meFn: func(context.Context) (*domain.User, error) { return fullUser(), nil }}
	m := NewSessionManager(memory.NewTokenStore(), auth, nil, ManagerConfig{BootstrapWait: time.Second}, zerolog.Nop())

	s1 := m.Acquire(context.Background(), "c1")
	s2 := m.Acquire(context.Background(), "c1")
	if s1 != s2 {
		t.Fatal("expected the same store for the same cookie")
	}
	if m.ActiveSessions() != 1 {
		t.Fatalf("expected 1 session, got %d", m.ActiveSessions())
	}
	if s1.Snapshot().Loading {
		t.Fatal("store should be bootstrapped within the wait")
	}
}

func TestAcquire_ReturnsLoadingWhenBootstrapIsSlow(t *testing.T) {
	release := make(chan struct{})
	auth := &stubAuthAPI{meFn: func(context.Context) (*domain.User, error) {
		<-release
		return fullUser(), nil
	}}
	tokens := memory.NewTokenStore()
	_ = tokens.Set(context.Background(), KeyFor("c1"), "tok")
	m := NewSessionManager(tokens, auth, nil, ManagerConfig{BootstrapWait: 10 * time.Millisecond}, zerolog.Nop())

	store := m.Acquire(context.Background(), "c1")
	if domain.Guard(store.Snapshot()) != domain.OutcomePlaceholder {
		t.Fatalf("expected placeholder while loading, got %+v", store.Snapshot())
	}

	close(release)
	<-store.(*SessionStore).Ready()
	if domain.Guard(store.Snapshot()) != domain.OutcomeRender {
		t.Fatalf("expected render once bootstrapped, got %+v", store.Snapshot())
	}
}

func TestInvalidate_UnknownKeyIsIgnored(t *testing.T) {
	m := NewSessionManager(memory.NewTokenStore(), &stubAuthAPI{}, nil, ManagerConfig{}, zerolog.Nop())
	m.Invalidate("nope")
}

func TestInvalidate_ClearsResidentStore(t *testing.T) {
	auth := &stubAuthAPI{meFn: func(context.Context) (*domain.User, error) { return fullUser(), nil }}
	tokens := memory.NewTokenStore()
	_ = tokens.Set(context.Background(), KeyFor("c1"), "tok")
	m := NewSessionManager(tokens, auth, nil, ManagerConfig{BootstrapWait: time.Second}, zerolog.Nop())

	store := m.Acquire(context.Background(), "c1")
	if store.Snapshot().User == nil {
		t.Fatal("expected restored user")
	}
	m.Invalidate(store.Key())
	if store.Snapshot().User != nil {
		t.Fatal("expected user cleared")
	}
}

func TestSweep_EvictsIdleStores(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := &recordingListener{}
	m := NewSessionManager(memory.NewTokenStore(), &stubAuthAPI{}, l, ManagerConfig{BootstrapWait: time.Second, IdleTTL: time.Minute}, zerolog.Nop())
	m.now = func() time.Time { return now }

	m.Acquire(context.Background(), "old")
	now = now.Add(45 * time.Second)
	m.Acquire(context.Background(), "fresh")
	now = now.Add(30 * time.Second)

	m.Sweep()

	if m.ActiveSessions() != 1 {
		t.Fatalf("expected 1 resident session, got %d", m.ActiveSessions())
	}
	if _, ok := m.Lookup(KeyFor("fresh")); !ok {
		t.Fatal("fresh session must survive the sweep")
	}
	if _, ended := l.counts(); ended != 1 {
		t.Fatalf("expected one SessionEnded, got %d", ended)
	}
}

func TestClose_EndsAllSessions(t *testing.T) {
	l := &recordingListener{}
	m := NewSessionManager(memory.NewTokenStore(), &stubAuthAPI{}, l, ManagerConfig{BootstrapWait: time.Second}, zerolog.Nop())
	m.Acquire(context.Background(), "a")
	m.Acquire(context.Background(), "b")

	m.Close()

	if m.ActiveSessions() != 0 {
		t.Fatal("expected no sessions after close")
	}
	if _, ended := l.counts(); ended != 2 {
		t.Fatalf("expected two SessionEnded, got %d", ended)
	}
}
