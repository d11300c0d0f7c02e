package service

import (
	"context"
	"maps"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/core/ports"
)

// Backend operations the interaction service toggles.
type interactionAPI interface {
	ports.LikeAPI
	ports.SavedAPI
	ports.FollowAPI
	LikeComment(ctx context.Context, commentID int64) error
	UnlikeComment(ctx context.Context, commentID int64) error
}

// InteractionService keeps per-session toggle state and flips it
// optimistically.
type InteractionService struct {
	api interactionAPI
	log zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Optimistic[ports.ToggleState]
}

var _ ports.InteractionService = (*InteractionService)(nil)

func NewInteractionService(api interactionAPI, log zerolog.Logger) *InteractionService {
	return &InteractionService{
		api:      api,
		log:      log,
		sessions: make(map[string]*Optimistic[ports.ToggleState]),
	}
}

func (s *InteractionService) SeedImage(key string, imageID int64, liked, saved bool, likes int) {
	s.session(key).Update(func(st ports.ToggleState) ports.ToggleState {
		st.Liked[imageID] = liked
		st.Saved[imageID] = saved
		st.LikeCounts[imageID] = likes
		return st
	})
}

func (s *InteractionService) SeedFollow(key string, userID int64, following bool) {
	s.session(key).Update(func(st ports.ToggleState) ports.ToggleState {
		st.Following[userID] = following
		return st
	})
}

func (s *InteractionService) SeedComment(key string, commentID int64, liked bool, likes int) {
	s.session(key).Update(func(st ports.ToggleState) ports.ToggleState {
		st.CommentLiked[commentID] = liked
		st.CommentLikes[commentID] = likes
		return st
	})
}

func (s *InteractionService) ToggleImageLike(ctx context.Context, key string, imageID int64) (ports.ToggleState, error) {
	var was bool
	p := Patch[ports.ToggleState]{
		Key: itemKey("like", imageID),
		Apply: func(st ports.ToggleState) ports.ToggleState {
			was = st.Liked[imageID]
			st.Liked[imageID] = !was
			st.LikeCounts[imageID] += delta(was)
			return st
		},
		Revert: func(st ports.ToggleState) ports.ToggleState {
			st.Liked[imageID] = was
			st.LikeCounts[imageID] -= delta(was)
			return st
		},
	}
	return s.session(key).Mutate(ports.WithSessionKey(ctx, key), "like", p, func(ctx context.Context) error {
		if was {
			return s.api.UnlikeImage(ctx, imageID)
		}
		return s.api.LikeImage(ctx, imageID)
	})
}

func (s *InteractionService) ToggleSave(ctx context.Context, key string, imageID int64) (ports.ToggleState, error) {
	var was bool
	p := Patch[ports.ToggleState]{
		Key: itemKey("save", imageID),
		Apply: func(st ports.ToggleState) ports.ToggleState {
			was = st.Saved[imageID]
			st.Saved[imageID] = !was
			return st
		},
		Revert: func(st ports.ToggleState) ports.ToggleState {
			st.Saved[imageID] = was
			return st
		},
	}
	return s.session(key).Mutate(ports.WithSessionKey(ctx, key), "save", p, func(ctx context.Context) error {
		if was {
			return s.api.UnsaveImage(ctx, imageID)
		}
		return s.api.SaveImage(ctx, imageID)
	})
}

func (s *InteractionService) ToggleFollow(ctx context.Context, key string, userID int64) (ports.ToggleState, error) {
	var was bool
	p := Patch[ports.ToggleState]{
		Key: itemKey("follow", userID),
		Apply: func(st ports.ToggleState) ports.ToggleState {
			was = st.Following[userID]
			st.Following[userID] = !was
			return st
		},
		Revert: func(st ports.ToggleState) ports.ToggleState {
			st.Following[userID] = was
			return st
		},
	}
	return s.session(key).Mutate(ports.WithSessionKey(ctx, key), "follow", p, func(ctx context.Context) error {
		if was {
			return s.api.Unfollow(ctx, userID)
		}
		return s.api.Follow(ctx, userID)
	})
}

func (s *InteractionService) ToggleCommentLike(ctx context.Context, key string, commentID int64) (ports.ToggleState, error) {
	var was bool
	p := Patch[ports.ToggleState]{
		Key: itemKey("comment_like", commentID),
		Apply: func(st ports.ToggleState) ports.ToggleState {
			was = st.CommentLiked[commentID]
			st.CommentLiked[commentID] = !was
			st.CommentLikes[commentID] += delta(was)
			return st
		},
		Revert: func(st ports.ToggleState) ports.ToggleState {
			st.CommentLiked[commentID] = was
			st.CommentLikes[commentID] -= delta(was)
			return st
		},
	}
	return s.session(key).Mutate(ports.WithSessionKey(ctx, key), "comment_like", p, func(ctx context.Context) error {
		if was {
			return s.api.UnlikeComment(ctx, commentID)
		}
		return s.api.LikeComment(ctx, commentID)
	})
}

func (s *InteractionService) State(key string) ports.ToggleState {
	return s.session(key).State()
}

// Forget drops the toggle state of a session.
func (s *InteractionService) Forget(key string) {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
}

// SessionStarted is a no-op; state is created lazily.
func (s *InteractionService) SessionStarted(string) {}

// SessionEnded forgets the session's toggles.
func (s *InteractionService) SessionEnded(key string) { s.Forget(key) }

func (s *InteractionService) session(key string) *Optimistic[ports.ToggleState] {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.sessions[key]
	if !ok {
		o = NewOptimistic(newToggleState(), cloneToggleState, s.log.With().Str("session", shortKey(key)).Logger())
		s.sessions[key] = o
	}
	return o
}

func newToggleState() ports.ToggleState {
	return ports.ToggleState{
		Liked:        map[int64]bool{},
		LikeCounts:   map[int64]int{},
		Saved:        map[int64]bool{},
		Following:    map[int64]bool{},
		CommentLiked: map[int64]bool{},
		CommentLikes: map[int64]int{},
	}
}

func cloneToggleState(st ports.ToggleState) ports.ToggleState {
	return ports.ToggleState{
		Liked:        maps.Clone(st.Liked),
		LikeCounts:   maps.Clone(st.LikeCounts),
		Saved:        maps.Clone(st.Saved),
		Following:    maps.Clone(st.Following),
		CommentLiked: maps.Clone(st.CommentLiked),
		CommentLikes: maps.Clone(st.CommentLikes),
	}
}

func itemKey(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}

// delta is the counter change of flipping a like that was previously was.
func delta(was bool) int {
	if was {
		return -1
	}
	return 1
}
