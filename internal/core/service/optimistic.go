package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/pkg/metrics"
)

// Patch is a reversible local change. Revert must undo exactly what Apply
// did, so concurrent patches on other keys survive a rollback. Mutations
// sharing a Key run one at a time, from Apply through the backend call to
// any Revert.
type Patch[S any] struct {
	Key    string
	Apply  func(S) S
	Revert func(S) S
}

// Optimistic applies patches to S before the backend confirms them and
// reverts the patch when the confirming call fails.
type Optimistic[S any] struct {
	mu    sync.Mutex
	state S
	clone func(S) S
	log   zerolog.Logger
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewOptimistic wraps initial. clone must deep-copy S; it is used for every
// value handed out so callers never alias the guarded state.
func NewOptimistic[S any](initial S, clone func(S) S, log zerolog.Logger) *Optimistic[S] {
	return &Optimistic[S]{state: initial, clone: clone, log: log, locks: make(map[string]*keyLock)}
}

// State returns a copy of the current state.
func (o *Optimistic[S]) State() S {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.clone(o.state)
}

// Update changes the state without a backend call.
func (o *Optimistic[S]) Update(fn func(S) S) {
	o.mu.Lock()
	o.state = fn(o.state)
	o.mu.Unlock()
}

// Mutate applies p, runs call, and applies p.Revert if call fails. The
// state after the outcome is returned together with call's error.
func (o *Optimistic[S]) Mutate(ctx context.Context, action string, p Patch[S], call func(context.Context) error) (S, error) {
	if p.Key != "" {
		defer o.lock(p.Key)()
	}
	o.Update(p.Apply)

	if err := call(ctx); err != nil {
		o.Update(p.Revert)
		metrics.OptimisticRevertsTotal.WithLabelValues(action).Inc()
		o.log.Warn().Err(err).Str("action", action).Msg("optimistic update reverted")
		return o.State(), err
	}
	return o.State(), nil
}

// lock takes the per-key mutation lock and returns its release. Idle keys
// are dropped from the map.
func (o *Optimistic[S]) lock(key string) func() {
	o.mu.Lock()
	l, ok := o.locks[key]
	if !ok {
		l = &keyLock{}
		o.locks[key] = l
	}
	l.refs++
	o.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		o.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(o.locks, key)
		}
		o.mu.Unlock()
	}
}
