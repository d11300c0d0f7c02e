package domain

import "time"

// The types below are pass-through DTOs. Their shape is owned by the backend;
// the gateway reads only the identifiers and counters it needs to patch state.

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up form. ConfirmPassword never leaves the gateway.
type Registration struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Fullname        string `json:"fullname,omitempty"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
}

// LoginResult is what the login endpoint returns: the token plus enough of the
// user to render immediately.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Bio      string `json:"bio"`
}

// PartialUser is the optimistic user shown between login and the full
// profile fetch.
func (r LoginResult) PartialUser() *User {
	return &User{
		ID:       r.UserID,
		Username: r.Username,
		Fullname: r.Username,
		Bio:      r.Bio,
		Role:     r.Role,
	}
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Username       string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Fullname       string `json:"fullname,omitempty"`
	Bio            string `json:"bio,omitempty" validate:"max=500"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// PasswordChange is the change-password form.
type PasswordChange struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"-" validate:"required,eqfield=NewPassword"`
}

// Image is a posted picture.
type Image struct {
	ID                 int64     `json:"imageId"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	ImageURL           string    `json:"imageUrl"`
	UserID             int64     `json:"userId"`
	Username           string    `json:"username,omitempty"`
	UserProfilePicture string    `json:"userProfilePicture,omitempty"`
	LikesCount         int       `json:"likesCount"`
	CommentsCount      int       `json:"commentsCount"`
	Tags               []Tag     `json:"tags,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ImageQuery filters the image listing.
type ImageQuery struct {
	UserID   int64
	Tag      string
	Page     int
	PageSize int
}

// ImageUpload is a new image with its file content.
type ImageUpload struct {
	Title       string   `form:"title" validate:"required,max=100"`
	Description string   `form:"description" validate:"max=1000"`
	Tags        []string `form:"tags"`
	FileName    string   `validate:"required"`
	ContentType string
	Content     []byte `validate:"required"`
}

// ImageEdit carries the editable image fields.
type ImageEdit struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// Comment is a comment or a reply on an image.
type Comment struct {
	ID                   int64     `json:"commentId"`
	ImageID              int64     `json:"imageId"`
	UserID               int64     `json:"userId"`
	Username             string    `json:"username"`
	UserProfilePicture   string    `json:"userProfilePicture,omitempty"`
	Content              string    `json:"content"`
	ParentCommentID      *int64    `json:"parentCommentId"`
	LikesCount           int       `json:"likesCount"`
	IsLikedByCurrentUser bool      `json:"isLikedByCurrentUser"`
	RepliesCount         int       `json:"repliesCount"`
	Replies              []Comment `json:"replies,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

// NewComment is the comment form. ParentCommentID is set for replies.
type NewComment struct {
	ImageID         int64  `json:"imageId" validate:"required"`
	Content         string `json:"content" validate:"required,max=1000"`
	ParentCommentID *int64 `json:"parentCommentId"`
}

// Tag labels images.
type Tag struct {
	ID         int64  `json:"tagId"`
	Name       string `json:"name"`
	ImageCount int    `json:"imageCount,omitempty"`
}

// FollowCounts is the follower summary of a user.
type FollowCounts struct {
	Followers int `json:"followersCount"`
	Following int `json:"followingCount"`
}

// SearchResult is the combined user+image search.
type SearchResult struct {
	Users  []User  `json:"users"`
	Images []Image `json:"images"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}

// Notification is a single entry in the user's notification feed.
type Notification struct {
	ID          int64     `json:"notificationId"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	ReferenceID int64     `json:"referenceId"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NotificationSummary is the backend's per-type unread breakdown.
type NotificationSummary struct {
	Unread int            `json:"unreadCount"`
	ByType map[string]int `json:"byType"`
}

// ReportStatus is the moderation state of a report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
)

// Report flags an image for moderation.
type Report struct {
	ID               int64        `json:"reportId"`
	ImageID          int64        `json:"imageId"`
	ReporterID       int64        `json:"reporterId"`
	ReporterUsername string       `json:"reporterUsername,omitempty"`
	Reason           string       `json:"reason"`
	Description      string       `json:"description,omitempty"`
	Status           ReportStatus `json:"status"`
	Resolution       string       `json:"resolution,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	ResolvedAt       *time.Time   `json:"resolvedAt,omitempty"`
}

// NewReport is the report form.
type NewReport struct {
	ImageID     int64  `json:"imageId" validate:"required"`
	Reason      string `json:"reason" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=1000"`
}

// Resolution closes a report. DeleteImage asks the backend to remove the
// reported image and notify its owner with Note.
type Resolution struct {
	Note        string `json:"resolution" validate:"required,max=1000"`
	DeleteImage bool   `json:"deleteImage"`
}
