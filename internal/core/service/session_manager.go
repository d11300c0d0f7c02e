package service

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/snapboard/webclient/internal/core/ports"
	"github.com/snapboard/webclient/internal/pkg/metrics"
)

// ManagerConfig tunes session residency.
type ManagerConfig struct {
	// BootstrapWait bounds how long Acquire waits for a fresh store to finish
	// its bootstrap before handing it back in the loading state.
	BootstrapWait time.Duration
	// IdleTTL evicts stores not acquired for this long. Zero disables eviction.
	IdleTTL time.Duration
}

// SessionManager owns one SessionStore per browser session cookie. Stores are
// keyed by a hash of the cookie so the raw cookie never reaches a token store.
type SessionManager struct {
	tokens   ports.TokenStore
	auth     ports.AuthAPI
	listener SessionListener
	cfg      ManagerConfig
	log      zerolog.Logger
	now      func() time.Time

	mu     sync.Mutex
	stores map[string]*SessionStore
}

var _ ports.SessionManager = (*SessionManager)(nil)

func NewSessionManager(tokens ports.TokenStore, auth ports.AuthAPI, listener SessionListener, cfg ManagerConfig, log zerolog.Logger) *SessionManager {
	if listener == nil {
		listener = nopListener{}
	}
	return &SessionManager{
		tokens:   tokens,
		auth:     auth,
		listener: listener,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		stores:   make(map[string]*SessionStore),
	}
}

// KeyFor derives the storage key of a session cookie.
func KeyFor(cookie string) string {
	sum := blake2b.Sum256([]byte(cookie))
	return hex.EncodeToString(sum[:])
}

// Acquire returns the store for cookie. A store seen for the first time
// starts bootstrapping in the background, detached from ctx so an aborted
// request does not leave it half done.
func (m *SessionManager) Acquire(ctx context.Context, cookie string) ports.SessionStore {
	key := KeyFor(cookie)

	m.mu.Lock()
	store, ok := m.stores[key]
	if !ok {
		store = NewSessionStore(key, m.tokens, m.auth, m.listener, m.log)
		store.now = m.now
		m.stores[key] = store
		metrics.SessionsActive.Set(float64(len(m.stores)))
	}
	m.mu.Unlock()

	store.touch()
	if !ok {
		go store.Bootstrap(context.WithoutCancel(ctx))
	}

	m.awaitBootstrap(ctx, store)
	return store
}

func (m *SessionManager) awaitBootstrap(ctx context.Context, store *SessionStore) {
	select {
	case <-store.Ready():
		return
	default:
	}
	if m.cfg.BootstrapWait <= 0 {
		return
	}
	timer := time.NewTimer(m.cfg.BootstrapWait)
	defer timer.Stop()
	select {
	case <-store.Ready():
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Invalidate clears the user of the session under key. Unknown keys are
// ignored: the token is already gone and there is no state to reset.
func (m *SessionManager) Invalidate(key string) {
	m.mu.Lock()
	store, ok := m.stores[key]
	m.mu.Unlock()
	if ok {
		store.Invalidate()
	}
}

// Lookup returns a resident store without creating one.
func (m *SessionManager) Lookup(key string) (*SessionStore, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	store, ok := m.stores[key]
	return store, ok
}

func (m *SessionManager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Sweep evicts idle stores. Their tokens stay in the token store, so the next
// request from the same browser bootstraps a fresh store from it.
func (m *SessionManager) Sweep() {
	if m.cfg.IdleTTL <= 0 {
		return
	}
	now := m.now()

	var evicted []string
	m.mu.Lock()
	for key, store := range m.stores {
		if store.idleSince(now) >= m.cfg.IdleTTL {
			delete(m.stores, key)
			evicted = append(evicted, key)
		}
	}
	metrics.SessionsActive.Set(float64(len(m.stores)))
	m.mu.Unlock()

	for _, key := range evicted {
		m.listener.SessionEnded(key)
	}
	if len(evicted) > 0 {
		metrics.SessionEndsTotal.WithLabelValues("idle").Add(float64(len(evicted)))
		m.log.Debug().Int("evicted", len(evicted)).Msg("idle sessions evicted")
	}
}

// Close ends every resident session without touching stored tokens.
func (m *SessionManager) Close() {
	m.mu.Lock()
	keys := make([]string, 0, len(m.stores))
	for key := range m.stores {
		keys = append(keys, key)
	}
	m.stores = make(map[string]*SessionStore)
	metrics.SessionsActive.Set(0)
	m.mu.Unlock()

	for _, key := range keys {
		m.listener.SessionEnded(key)
	}
}
