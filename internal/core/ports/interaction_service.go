package ports

import "context"

// ToggleState is the per-session view state the gateway patches
// optimistically before the backend confirms a toggle.
type ToggleState struct {
	Liked        map[int64]bool `json:"liked"`
	LikeCounts   map[int64]int  `json:"likeCounts"`
	Saved        map[int64]bool `json:"saved"`
	Following    map[int64]bool `json:"following"`
	CommentLiked map[int64]bool `json:"commentLiked"`
	CommentLikes map[int64]int  `json:"commentLikes"`
}

// InteractionService applies like/follow/save toggles optimistically and
// reverts them when the backend refuses.
type InteractionService interface {
	// Seed records the backend's view of an image before toggles apply to it.
	SeedImage(key string, imageID int64, liked, saved bool, likes int)
	SeedFollow(key string, userID int64, following bool)
	SeedComment(key string, commentID int64, liked bool, likes int)

	ToggleImageLike(ctx context.Context, key string, imageID int64) (ToggleState, error)
	ToggleSave(ctx context.Context, key string, imageID int64) (ToggleState, error)
	ToggleFollow(ctx context.Context, key string, userID int64) (ToggleState, error)
	ToggleCommentLike(ctx context.Context, key string, commentID int64) (ToggleState, error)

	State(key string) ToggleState
	Forget(key string)
}

// UnreadCounter exposes the latest polled unread notification count.
type UnreadCounter interface {
	Unread(key string) (int, bool)
}
