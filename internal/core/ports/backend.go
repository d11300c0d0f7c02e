package ports

import (
	"context"

	"github.com/snapboard/webclient/internal/core/domain"
)

// AuthAPI covers the anonymous auth endpoints and the current-profile fetch.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	Register(ctx context.Context, reg domain.Registration) error
	Me(ctx context.Context) (*domain.User, error)
}

// UserAPI is the user directory and account management.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, change domain.PasswordChange) error
	ChangeRole(ctx context.Context, id int64, role domain.Role) error
	DeleteUser(ctx context.Context, id int64) error
}

// ImageAPI is the image catalogue.
type ImageAPI interface {
	ListImages(ctx context.Context, q domain.ImageQuery) ([]domain.Image, error)
	GetImage(ctx context.Context, id int64) (*domain.Image, error)
	CreateImage(ctx context.Context, upload domain.ImageUpload) (*domain.Image, error)
	UpdateImage(ctx context.Context, id int64, edit domain.ImageEdit) (*domain.Image, error)
	DeleteImage(ctx context.Context, id int64) error
	ImageURL(path string) string
}

// CommentAPI covers comments, replies and comment likes.
type CommentAPI interface {
	CommentsForImage(ctx context.Context, imageID int64) ([]domain.Comment, error)
	GetComment(ctx context.Context, id int64) (*domain.Comment, error)
	CreateComment(ctx context.Context, c domain.NewComment) (*domain.Comment, error)
	UpdateComment(ctx context.Context, id int64, content string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	Replies(ctx context.Context, commentID int64) ([]domain.Comment, error)
	LikeComment(ctx context.Context, commentID int64) error
	UnlikeComment(ctx context.Context, commentID int64) error
	CommentLiked(ctx context.Context, commentID int64) (bool, error)
	CommentLikesCount(ctx context.Context, commentID int64) (int, error)
}

// LikeAPI covers image likes.
type LikeAPI interface {
	LikesForImage(ctx context.Context, imageID int64) ([]domain.User, error)
	LikedImages(ctx context.Context, userID int64) ([]domain.Image, error)
	LikeImage(ctx context.Context, imageID int64) error
	UnlikeImage(ctx context.Context, imageID int64) error
	ImageLiked(ctx context.Context, imageID int64) (bool, error)
}

// FollowAPI covers the follow graph.
type FollowAPI interface {
	Followers(ctx context.Context, userID int64) ([]domain.User, error)
	Following(ctx context.Context, userID int64) ([]domain.User, error)
	Follow(ctx context.Context, userID int64) error
	Unfollow(ctx context.Context, userID int64) error
	IsFollowing(ctx context.Context, userID int64) (bool, error)
	FollowCounts(ctx context.Context, userID int64) (*domain.FollowCounts, error)
}

// SavedAPI covers the saved-images board.
type SavedAPI interface {
	SavedImages(ctx context.Context) ([]domain.Image, error)
	SavedImagesOf(ctx context.Context, userID int64) ([]domain.Image, error)
	SavedImagesPage(ctx context.Context, page, pageSize int) (*domain.Page[domain.Image], error)
	SaveImage(ctx context.Context, imageID int64) error
	UnsaveImage(ctx context.Context, imageID int64) error
	ImageSaved(ctx context.Context, imageID int64) (bool, error)
}

// TagAPI covers tags and image tagging.
type TagAPI interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	CreateTag(ctx context.Context, name string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
	ImagesByTag(ctx context.Context, id int64) ([]domain.Image, error)
	ImagesByTagName(ctx context.Context, name string) ([]domain.Image, error)
	TagImage(ctx context.Context, imageID, tagID int64) error
	UntagImage(ctx context.Context, imageID, tagID int64) error
	TagsForImage(ctx context.Context, imageID int64) ([]domain.Tag, error)
	PopularTags(ctx context.Context, count int) ([]domain.Tag, error)
}

// SearchAPI is the backend search.
type SearchAPI interface {
	Search(ctx context.Context, query string, limit int) (*domain.SearchResult, error)
	SearchImages(ctx context.Context, query string, page, pageSize int) (*domain.Page[domain.Image], error)
	SearchUsers(ctx context.Context, query string, page, pageSize int) (*domain.Page[domain.User], error)
}

// NotificationAPI is the notification feed.
type NotificationAPI interface {
	Notifications(ctx context.Context, page, pageSize int) ([]domain.Notification, error)
	GetNotification(ctx context.Context, id int64) (*domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
	NotificationSummary(ctx context.Context) (*domain.NotificationSummary, error)
	DeleteNotification(ctx context.Context, id int64) error
}

// ReportAPI is content moderation.
type ReportAPI interface {
	Reports(ctx context.Context, status domain.ReportStatus) ([]domain.Report, error)
	GetReport(ctx context.Context, id int64) (*domain.Report, error)
	ReportsForImage(ctx context.Context, imageID int64) ([]domain.Report, error)
	MyReports(ctx context.Context) ([]domain.Report, error)
	CreateReport(ctx context.Context, r domain.NewReport) (*domain.Report, error)
	ResolveReport(ctx context.Context, id int64, res domain.Resolution) error
	PendingReportsCount(ctx context.Context) (int, error)
}

// Backend is every REST wrapper behind the shared HTTP client.
type Backend interface {
	AuthAPI
	UserAPI
	ImageAPI
	CommentAPI
	LikeAPI
	FollowAPI
	SavedAPI
	TagAPI
	SearchAPI
	NotificationAPI
	ReportAPI
}
