package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
	"github.com/snapboard/webclient/internal/infrastructure/db/memory"
)

type stubNotificationAPI struct {
	mu      sync.Mutex
	counts  map[string]int
	calls   int
	unreadF func(ctx context.Context) (int, error)
}

func (s *stubNotificationAPI) UnreadCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	s.calls++
	f := s.unreadF
	s.mu.Unlock()
	if f != nil {
		return f(ctx)
	}
	key, _ := ports.SessionKey(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key], nil
}

func (s *stubNotificationAPI) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubNotificationAPI) Notifications(context.Context, int, int) ([]domain.Notification, error) {
	return nil, nil
}
func (s *stubNotificationAPI) GetNotification(context.Context, int64) (*domain.Notification, error) {
	return nil, nil
}
func (s *stubNotificationAPI) MarkRead(context.Context, int64) error { return nil }
func (s *stubNotificationAPI) MarkAllRead(context.Context) error     { return nil }
func (s *stubNotificationAPI) NotificationSummary(context.Context) (*domain.NotificationSummary, error) {
	return nil, nil
}
func (s *stubNotificationAPI) DeleteNotification(context.Context, int64) error { return nil }

func TestUnreadPoller_StartFetchesImmediately(t *testing.T) {
	api := &stubNotificationAPI{counts: map[string]int{"k": 3}}
	p := NewUnreadPoller(api, cron.New(), time.Hour, zerolog.Nop())

	p.SessionStarted("k")

	if n, ok := p.Unread("k"); !ok || n != 3 {
		t.Fatalf("expected 3 unread, got %d (%v)", n, ok)
	}
	if !p.Polling("k") {
		t.Fatal("expected a scheduled poll")
	}
}

func TestUnreadPoller_EndCancelsPoll(t *testing.T) {
	api := &stubNotificationAPI{counts: map[string]int{"k": 1}}
	c := cron.New()
	p := NewUnreadPoller(api, c, time.Hour, zerolog.Nop())

	p.SessionStarted("k")
	p.SessionStarted("k")
	if len(c.Entries()) != 1 {
		t.Fatalf("expected one cron entry, got %d", len(c.Entries()))
	}

	p.SessionEnded("k")

	if p.Polling("k") || len(c.Entries()) != 0 {
		t.Fatal("expected poll removed")
	}
	if _, ok := p.Unread("k"); ok {
		t.Fatal("expected count forgotten")
	}
	if err := p.Process(context.Background(), ports.RefreshTask{SessionKey: "k"}); err != nil {
		t.Fatalf("stale task must be a no-op, got %v", err)
	}
	if api.callCount() != 1 {
		t.Fatalf("stale task must not reach the backend, got %d calls", api.callCount())
	}
}

func TestUnreadPoller_TicksOnSchedule(t *testing.T) {
	api := &stubNotificationAPI{counts: map[string]int{"k": 2}}
	c := cron.New()
	c.Start()
	defer c.Stop()
	p := NewUnreadPoller(api, c, time.Second, zerolog.Nop())

	p.SessionStarted("k")

	deadline := time.Now().Add(3 * time.Second)
	for api.callCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if api.callCount() < 2 {
		t.Fatalf("expected a scheduled tick, got %d calls", api.callCount())
	}
}

type recordingQueue struct {
	tasks []ports.RefreshTask
}

func (q *recordingQueue) Enqueue(task ports.RefreshTask) bool {
	q.tasks = append(q.tasks, task)
	return true
}

func TestUnreadPoller_UsesQueue(t *testing.T) {
	api := &stubNotificationAPI{counts: map[string]int{}}
	p := NewUnreadPoller(api, cron.New(), time.Hour, zerolog.Nop())
	q := &recordingQueue{}
	p.UseQueue(q)

	p.SessionStarted("k")

	if len(q.tasks) != 1 || q.tasks[0].SessionKey != "k" {
		t.Fatalf("expected one queued task, got %+v", q.tasks)
	}
	if api.callCount() != 0 {
		t.Fatal("queued tick must not call the backend inline")
	}
}

func TestUnreadPoller_StopIgnoresLaterStarts(t *testing.T) {
	c := cron.New()
	p := NewUnreadPoller(&stubNotificationAPI{counts: map[string]int{}}, c, time.Hour, zerolog.Nop())
	p.SessionStarted("a")

	p.Stop()
	p.SessionStarted("b")

	if len(c.Entries()) != 0 {
		t.Fatalf("expected no entries after stop, got %d", len(c.Entries()))
	}
}

// A poll answered with 401 must clear the session and stop its own polling.
func TestUnreadPoller_UnauthorizedStopsPolling(t *testing.T) {
	api := &stubNotificationAPI{}
	p := NewUnreadPoller(api, cron.New(), time.Hour, zerolog.Nop())

	auth := &stubAuthAPI{meFn: func(context.Context) (*domain.User, error) { return fullUser(), nil }}
	tokens := memory.NewTokenStore()
	_ = tokens.Set(context.Background(), KeyFor("c1"), "tok")
	m := NewSessionManager(tokens, auth, p, ManagerConfig{BootstrapWait: time.Second}, zerolog.Nop())

	api.unreadF = func(ctx context.Context) (int, error) {
		// What the backend client does on 401.
		key, _ := ports.SessionKey(ctx)
		_ = tokens.Delete(ctx, key)
		m.Invalidate(key)
		return 0, &domain.AuthError{Status: 401, Expired: true}
	}

	store := m.Acquire(context.Background(), "c1")

	if store.Snapshot().User != nil {
		t.Fatal("expected user cleared by the 401")
	}
	if p.Polling(store.Key()) {
		t.Fatal("expected polling stopped after 401")
	}
	if tokens.Len() != 0 {
		t.Fatal("expected token removed")
	}
}

func TestUnreadPoller_ErrorKeepsPolling(t *testing.T) {
	api := &stubNotificationAPI{unreadF: func(context.Context) (int, error) {
		return 0, &domain.NetworkError{Op: "GET", Err: errors.New("down")}
	}}
	p := NewUnreadPoller(api, cron.New(), time.Hour, zerolog.Nop())

	p.SessionStarted("k")

	if !p.Polling("k") {
		t.Fatal("a transient failure must not cancel polling")
	}
	if _, ok := p.Unread("k"); ok {
		t.Fatal("no count should be recorded on failure")
	}
}
