package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

type stubInteractionAPI struct {
	fail  error
	calls []string
	keys  []string
}

func (s *stubInteractionAPI) record(ctx context.Context, call string) error {
	s.calls = append(s.calls, call)
	key, _ := ports.SessionKey(ctx)
	s.keys = append(s.keys, key)
	return s.fail
}

func (s *stubInteractionAPI) LikesForImage(context.Context, int64) ([]domain.User, error) {
	return nil, nil
}
func (s *stubInteractionAPI) LikedImages(context.Context, int64) ([]domain.Image, error) {
	return nil, nil
}
func (s *stubInteractionAPI) LikeImage(ctx context.Context, _ int64) error {
	return s.record(ctx, "like")
}
func (s *stubInteractionAPI) UnlikeImage(ctx context.Context, _ int64) error {
	return s.record(ctx, "unlike")
}
func (s *stubInteractionAPI) ImageLiked(context.Context, int64) (bool, error) { return false, nil }
func (s *stubInteractionAPI) SavedImages(context.Context) ([]domain.Image, error) {
	return nil, nil
}
func (s *stubInteractionAPI) SavedImagesOf(context.Context, int64) ([]domain.Image, error) {
	return nil, nil
}
func (s *stubInteractionAPI) SavedImagesPage(context.Context, int, int) (*domain.Page[domain.Image], error) {
	return nil, nil
}
func (s *stubInteractionAPI) SaveImage(ctx context.Context, _ int64) error {
	return s.record(ctx, "save")
}
func (s *stubInteractionAPI) UnsaveImage(ctx context.Context, _ int64) error {
	return s.record(ctx, "unsave")
}
func (s *stubInteractionAPI) ImageSaved(context.Context, int64) (bool, error) { return false, nil }
func (s *stubInteractionAPI) Followers(context.Context, int64) ([]domain.User, error) {
	return nil, nil
}
func (s *stubInteractionAPI) Following(context.Context, int64) ([]domain.User, error) {
	return nil, nil
}
func (s *stubInteractionAPI) Follow(ctx context.Context, _ int64) error {
	return s.record(ctx, "follow")
}
func (s *stubInteractionAPI) Unfollow(ctx context.Context, _ int64) error {
	return s.record(ctx, "unfollow")
}
func (s *stubInteractionAPI) IsFollowing(context.Context, int64) (bool, error) { return false, nil }
func (s *stubInteractionAPI) FollowCounts(context.Context, int64) (*domain.FollowCounts, error) {
	return nil, nil
}
func (s *stubInteractionAPI) LikeComment(ctx context.Context, _ int64) error {
	return s.record(ctx, "comment_like")
}
func (s *stubInteractionAPI) UnlikeComment(ctx context.Context, _ int64) error {
	return s.record(ctx, "comment_unlike")
}

func TestToggleImageLike_FlipsAndCounts(t *testing.T) {
	api := &stubInteractionAPI{}
	svc := NewInteractionService(api, zerolog.Nop())
	svc.SeedImage("k", 1, false, false, 4)

	st, err := svc.ToggleImageLike(context.Background(), "k", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Liked[1] || st.LikeCounts[1] != 5 {
		t.Fatalf("expected liked with 5 likes, got %v/%d", st.Liked[1], st.LikeCounts[1])
	}

	st, _ = svc.ToggleImageLike(context.Background(), "k", 1)
	if st.Liked[1] || st.LikeCounts[1] != 4 {
		t.Fatalf("expected unliked with 4 likes, got %v/%d", st.Liked[1], st.LikeCounts[1])
	}
	if len(api.calls) != 2 || api.calls[0] != "like" || api.calls[1] != "unlike" {
		t.Fatalf("unexpected calls %v", api.calls)
	}
	if api.keys[0] != "k" {
		t.Fatalf("backend call must carry the session key, got %q", api.keys[0])
	}
}

// gatedLikeAPI holds the first like call until release is closed and then
// fails it. Later calls succeed immediately.
type gatedLikeAPI struct {
	stubInteractionAPI
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls []string
}

func (g *gatedLikeAPI) LikeImage(ctx context.Context, _ int64) error {
	g.mu.Lock()
	g.calls = append(g.calls, "like")
	first := len(g.calls) == 1
	g.mu.Unlock()
	if first {
		close(g.started)
		<-g.release
		return &domain.BackendError{Status: 500}
	}
	return nil
}

func (g *gatedLikeAPI) UnlikeImage(ctx context.Context, _ int64) error {
	g.mu.Lock()
	g.calls = append(g.calls, "unlike")
	g.mu.Unlock()
	return nil
}

func TestToggleImageLike_ConcurrentTogglesOnOneImageAreSerialised(t *testing.T) {
	api := &gatedLikeAPI{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewInteractionService(api, zerolog.Nop())
	svc.SeedImage("k", 1, false, false, 0)
	ctx := context.Background()

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.ToggleImageLike(ctx, "k", 1)
		firstErr <- err
	}()
	<-api.started

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.ToggleImageLike(ctx, "k", 1)
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(api.release)

	if err := <-firstErr; !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected the first toggle to fail, got %v", err)
	}
	if err := <-secondErr; err != nil {
		t.Fatalf("unexpected error on second toggle: %v", err)
	}

	st := svc.State("k")
	if !st.Liked[1] || st.LikeCounts[1] != 1 {
		t.Fatalf("expected liked with 1 like, got %v/%d", st.Liked[1], st.LikeCounts[1])
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.calls) != 2 || api.calls[0] != "like" || api.calls[1] != "like" {
		t.Fatalf("second toggle must start from the reverted state, calls %v", api.calls)
	}
}

func TestToggle_DifferentImagesDoNotWait(t *testing.T) {
	api := &gatedLikeAPI{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewInteractionService(api, zerolog.Nop())
	ctx := context.Background()

	go func() { _, _ = svc.ToggleImageLike(ctx, "k", 1) }()
	<-api.started
	defer close(api.release)

	done := make(chan struct{})
	go func() {
		_, _ = svc.ToggleImageLike(ctx, "k", 2)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a toggle on another image waited for an unrelated call")
	}
	if st := svc.State("k"); !st.Liked[2] || st.LikeCounts[2] != 1 {
		t.Fatalf("expected image 2 liked, got %v/%d", st.Liked[2], st.LikeCounts[2])
	}
}

func TestToggleCommentLike_RevertsOnError(t *testing.T) {
	api := &stubInteractionAPI{fail: &domain.BackendError{Status: 500}}
	svc := NewInteractionService(api, zerolog.Nop())
	svc.SeedComment("k", 3, true, 2)

	st, err := svc.ToggleCommentLike(context.Background(), "k", 3)
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if !st.CommentLiked[3] || st.CommentLikes[3] != 2 {
		t.Fatalf("expected revert to liked/2, got %v/%d", st.CommentLiked[3], st.CommentLikes[3])
	}
	if api.calls[0] != "comment_unlike" {
		t.Fatalf("expected unlike call, got %v", api.calls)
	}
}

func TestToggleFollowAndSave(t *testing.T) {
	api := &stubInteractionAPI{}
	svc := NewInteractionService(api, zerolog.Nop())

	st, _ := svc.ToggleFollow(context.Background(), "k", 9)
	if !st.Following[9] {
		t.Fatal("expected following")
	}
	st, _ = svc.ToggleSave(context.Background(), "k", 1)
	if !st.Saved[1] {
		t.Fatal("expected saved")
	}
}

func TestState_IsolatedPerSessionAndForgotten(t *testing.T) {
	svc := NewInteractionService(&stubInteractionAPI{}, zerolog.Nop())
	svc.SeedImage("a", 1, true, false, 1)

	if svc.State("b").Liked[1] {
		t.Fatal("state leaked across sessions")
	}

	st := svc.State("a")
	st.Liked[1] = false
	if !svc.State("a").Liked[1] {
		t.Fatal("State must return a copy")
	}

	svc.SessionEnded("a")
	if svc.State("a").Liked[1] {
		t.Fatal("expected state forgotten after session end")
	}
}
