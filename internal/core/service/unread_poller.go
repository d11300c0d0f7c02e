package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/core/ports"
	"github.com/snapboard/webclient/internal/pkg/metrics"
)

// UnreadPoller refreshes the unread notification count of every logged-in
// session on a fixed interval. Each session gets its own cron entry, added
// when the session gains a user and removed the moment it loses it, so no
// poll outlives its session.
type UnreadPoller struct {
	api      ports.NotificationAPI
	cron     *cron.Cron
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	queue   ports.RefreshQueue
	entries map[string]cron.EntryID
	counts  map[string]int
	stopped bool
}

var (
	_ ports.UnreadCounter    = (*UnreadPoller)(nil)
	_ ports.RefreshProcessor = (*UnreadPoller)(nil)
	_ SessionListener        = (*UnreadPoller)(nil)
)

func NewUnreadPoller(api ports.NotificationAPI, c *cron.Cron, interval time.Duration, log zerolog.Logger) *UnreadPoller {
	return &UnreadPoller{
		api:      api,
		cron:     c,
		interval: interval,
		log:      log,
		entries:  make(map[string]cron.EntryID),
		counts:   make(map[string]int),
	}
}

// UseQueue routes ticks through q. Without a queue, ticks refresh inline on
// the cron goroutine.
func (p *UnreadPoller) UseQueue(q ports.RefreshQueue) {
	p.mu.Lock()
	p.queue = q
	p.mu.Unlock()
}

// SessionStarted schedules polling for key and triggers an immediate refresh.
func (p *UnreadPoller) SessionStarted(key string) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if _, ok := p.entries[key]; ok {
		p.mu.Unlock()
		return
	}
	id := p.cron.Schedule(cron.Every(p.interval), cron.FuncJob(func() { p.tick(key) }))
	p.entries[key] = id
	p.mu.Unlock()

	p.tick(key)
}

// SessionEnded cancels polling for key and forgets its count.
func (p *UnreadPoller) SessionEnded(key string) {
	p.mu.Lock()
	id, ok := p.entries[key]
	delete(p.entries, key)
	delete(p.counts, key)
	p.mu.Unlock()

	if ok {
		p.cron.Remove(id)
	}
}

// Stop cancels every poll. Later SessionStarted calls are ignored.
func (p *UnreadPoller) Stop() {
	p.mu.Lock()
	p.stopped = true
	ids := make([]cron.EntryID, 0, len(p.entries))
	for _, id := range p.entries {
		ids = append(ids, id)
	}
	p.entries = make(map[string]cron.EntryID)
	p.counts = make(map[string]int)
	p.mu.Unlock()

	for _, id := range ids {
		p.cron.Remove(id)
	}
}

// Polling reports whether key currently has a scheduled poll.
func (p *UnreadPoller) Polling(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.entries[key]
	return ok
}

// Unread returns the last count fetched for key.
func (p *UnreadPoller) Unread(key string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.counts[key]
	return n, ok
}

// Set records a count fetched elsewhere, e.g. after mark-all-read.
func (p *UnreadPoller) Set(key string, n int) {
	p.mu.Lock()
	if _, ok := p.entries[key]; ok {
		p.counts[key] = n
	}
	p.mu.Unlock()
}

func (p *UnreadPoller) tick(key string) {
	p.mu.Lock()
	q := p.queue
	p.mu.Unlock()

	task := ports.RefreshTask{SessionKey: key}
	if q != nil {
		q.Enqueue(task)
		return
	}
	if err := p.Process(context.Background(), task); err != nil {
		p.log.Debug().Err(err).Msg("unread refresh failed")
	}
}

// Process fetches and stores the unread count for one session. A 401 here
// clears the session through the backend client, which in turn cancels the
// poll via SessionEnded.
func (p *UnreadPoller) Process(ctx context.Context, task ports.RefreshTask) error {
	if !p.Polling(task.SessionKey) {
		return nil
	}
	n, err := p.api.UnreadCount(ports.WithSessionKey(ctx, task.SessionKey))
	if err != nil {
		metrics.UnreadPollsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.UnreadPollsTotal.WithLabelValues("ok").Inc()
	p.Set(task.SessionKey, n)
	return nil
}
