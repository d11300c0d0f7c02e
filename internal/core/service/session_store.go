package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
	"github.com/snapboard/webclient/internal/pkg/metrics"
)

const (
	loginFailedMessage    = "Failed to login"
	registerFailedMessage = "Failed to register"
)

// SessionStore holds who is logged in on one browser session. Lifecycle
// operations (bootstrap, login, logout, register, refresh) are serialised;
// snapshots can be read at any time.
type SessionStore struct {
	key      string
	tokens   ports.TokenStore
	auth     ports.AuthAPI
	listener SessionListener
	log      zerolog.Logger
	now      func() time.Time

	opMu  sync.Mutex
	mu    sync.RWMutex
	state domain.Session

	bootOnce sync.Once
	ready    chan struct{}
	lastSeen atomic.Int64
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore returns a store in the loading state. Nothing is read from
// the token store until Bootstrap runs.
func NewSessionStore(key string, tokens ports.TokenStore, auth ports.AuthAPI, listener SessionListener, log zerolog.Logger) *SessionStore {
	if listener == nil {
		listener = nopListener{}
	}
	s := &SessionStore{
		key:      key,
		tokens:   tokens,
		auth:     auth,
		listener: listener,
		log:      log.With().Str("session", shortKey(key)).Logger(),
		now:      time.Now,
		state:    domain.Session{Loading: true},
		ready:    make(chan struct{}),
	}
	s.touch()
	return s
}

func (s *SessionStore) Key() string { return s.key }

// Snapshot returns a copy of the current state.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// Ready is closed once the first bootstrap has finished.
func (s *SessionStore) Ready() <-chan struct{} { return s.ready }

// Bootstrap restores the user from a stored token. It runs once per store;
// later calls wait for the first one and return. It never fails: any problem
// leaves the session anonymous and removes the token.
func (s *SessionStore) Bootstrap(ctx context.Context) {
	s.bootOnce.Do(func() {
		defer close(s.ready)
		s.bootstrap(ctx)
	})
}

func (s *SessionStore) bootstrap(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	defer s.setLoading(false)

	ctx = ports.WithSessionKey(ctx, s.key)
	token, err := s.tokens.Get(ctx, s.key)
	if errors.Is(err, ports.ErrNoToken) {
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("bootstrap: token lookup failed")
		return
	}

	if tokenExpired(token, s.now()) {
		s.log.Info().Msg("bootstrap: stored token already expired")
		s.dropToken(ctx)
		metrics.SessionEndsTotal.WithLabelValues("bootstrap_failed").Inc()
		return
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("bootstrap: profile fetch failed, clearing token")
		s.dropToken(ctx)
		metrics.SessionEndsTotal.WithLabelValues("bootstrap_failed").Inc()
		return
	}

	s.mu.Lock()
	s.state.User = user
	s.mu.Unlock()
	s.listener.SessionStarted(s.key)
	s.log.Debug().Str("username", user.Username).Msg("bootstrap: session restored")
}

// Login exchanges credentials for a token, shows the partial user from the
// login response, then replaces it with the full profile. On any failure the
// previous token and user are put back and the error message is recorded.
func (s *SessionStore) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	s.Bootstrap(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	ctx = ports.WithSessionKey(ctx, s.key)
	prevUser := s.Snapshot().User
	prevToken, tokenErr := s.tokens.Get(ctx, s.key)
	if tokenErr != nil && !errors.Is(tokenErr, ports.ErrNoToken) {
		s.log.Warn().Err(tokenErr).Msg("login: token lookup failed")
	}

	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	fail := func(err error) (*domain.User, error) {
		s.restore(ctx, prevUser, prevToken, tokenErr)
		if prevUser != nil {
			s.listener.SessionStarted(s.key)
		}
		authErr := asAuthError(err, loginFailedMessage)
		s.finish(authErr.Message)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.Info().Err(err).Msg("login failed")
		return nil, authErr
	}

	res, err := s.auth.Login(ctx, creds)
	if err != nil {
		return fail(err)
	}
	if res.Token == "" {
		return fail(&domain.AuthError{Message: "login response carried no token"})
	}
	if err := s.tokens.Set(ctx, s.key, res.Token); err != nil {
		return fail(&domain.AuthError{Message: loginFailedMessage, Cause: err})
	}

	s.mu.Lock()
	s.state.User = res.PartialUser()
	s.mu.Unlock()

	user, err := s.auth.Me(ctx)
	if err != nil {
		return fail(err)
	}

	s.mu.Lock()
	s.state.User = user
	s.state.Loading = false
	s.mu.Unlock()

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.listener.SessionStarted(s.key)
	s.log.Info().Str("username", user.Username).Msg("logged in")

	u := *user
	return &u, nil
}

// Logout removes the token and the user. It always succeeds.
func (s *SessionStore) Logout(ctx context.Context) {
	s.Bootstrap(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.tokens.Delete(ctx, s.key); err != nil {
		s.log.Error().Err(err).Msg("logout: token delete failed")
	}
	s.mu.Lock()
	hadUser := s.state.User != nil
	s.state.User = nil
	s.state.Error = ""
	s.mu.Unlock()

	if hadUser {
		metrics.SessionEndsTotal.WithLabelValues("logout").Inc()
	}
	s.listener.SessionEnded(s.key)
	s.log.Info().Msg("logged out")
}

// Register creates an account. It never changes who is logged in, so
// Loading is left alone and only Error is updated.
func (s *SessionStore) Register(ctx context.Context, reg domain.Registration) error {
	if reg.Password != reg.ConfirmPassword {
		return domain.NewValidationError("Passwords do not match")
	}

	s.Bootstrap(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setError("")
	if err := s.auth.Register(ports.WithSessionKey(ctx, s.key), reg); err != nil {
		authErr := asAuthError(err, registerFailedMessage)
		s.setError(authErr.Message)
		s.log.Info().Err(err).Msg("registration failed")
		return authErr
	}
	s.log.Info().Str("username", reg.Username).Msg("registered")
	return nil
}

// Refresh re-reads the profile of the logged-in user.
func (s *SessionStore) Refresh(ctx context.Context) error {
	s.Bootstrap(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.Snapshot().User == nil {
		return &domain.AuthError{Message: "not logged in"}
	}
	user, err := s.auth.Me(ports.WithSessionKey(ctx, s.key))
	if err != nil {
		return err
	}
	s.mu.Lock()
	// A 401 during the fetch already cleared the user.
	if s.state.User != nil {
		s.state.User = user
	}
	s.mu.Unlock()
	return nil
}

// Invalidate drops the user after the backend rejected the token. The token
// itself is already gone.
func (s *SessionStore) Invalidate() {
	s.mu.Lock()
	hadUser := s.state.User != nil
	s.state.User = nil
	s.mu.Unlock()

	if hadUser {
		metrics.SessionEndsTotal.WithLabelValues("unauthorized").Inc()
		s.log.Info().Msg("session invalidated by backend")
	}
	s.listener.SessionEnded(s.key)
}

func (s *SessionStore) touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

func (s *SessionStore) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func (s *SessionStore) setLoading(loading bool) {
	s.mu.Lock()
	s.state.Loading = loading
	s.mu.Unlock()
}

func (s *SessionStore) finish(errMsg string) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = errMsg
	s.mu.Unlock()
}

func (s *SessionStore) setError(msg string) {
	s.mu.Lock()
	s.state.Error = msg
	s.mu.Unlock()
}

func (s *SessionStore) dropToken(ctx context.Context) {
	if err := s.tokens.Delete(ctx, s.key); err != nil {
		s.log.Error().Err(err).Msg("token delete failed")
	}
}

// restore puts back the token and user seen before a failed login. readErr
// is the result of reading that token; when the read itself failed the
// stored token is unknown and is left as it is.
func (s *SessionStore) restore(ctx context.Context, user *domain.User, token string, readErr error) {
	ctx = context.WithoutCancel(ctx)
	var err error
	switch {
	case readErr == nil:
		err = s.tokens.Set(ctx, s.key, token)
	case errors.Is(readErr, ports.ErrNoToken):
		err = s.tokens.Delete(ctx, s.key)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to restore token after login failure")
	}
	s.mu.Lock()
	s.state.User = user
	s.mu.Unlock()
}

// asAuthError folds any login or register failure into an AuthError, keeping
// the backend's message when there is one.
func asAuthError(err error, fallback string) *domain.AuthError {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		if authErr.Expired {
			// The fresh token was refused on the profile fetch. The caller is
			// still on the login form, so this is a plain failure.
			return &domain.AuthError{Status: authErr.Status, Message: fallback}
		}
		if authErr.Message == "" {
			return &domain.AuthError{Status: authErr.Status, Message: fallback, Cause: authErr.Cause}
		}
		return authErr
	}
	var be *domain.BackendError
	if errors.As(err, &be) {
		msg := be.Message
		if msg == "" {
			msg = fallback
		}
		return &domain.AuthError{Status: be.Status, Message: msg, Cause: err}
	}
	return &domain.AuthError{Message: fallback, Cause: err}
}

func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
