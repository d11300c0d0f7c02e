package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/api/middleware"
	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

type stubStore struct {
	key        string
	session    domain.Session
	loginFn    func(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	registerFn func(ctx context.Context, reg domain.Registration) error
	refreshFn  func(ctx context.Context) error
}

func (s *stubStore) Key() string               { return s.key }
func (s *stubStore) Snapshot() domain.Session  { return s.session }
func (s *stubStore) Bootstrap(context.Context) {}
func (s *stubStore) Logout(context.Context)    { s.session.User = nil }

func (s *stubStore) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubStore) Register(ctx context.Context, reg domain.Registration) error {
	return s.registerFn(ctx, reg)
}

func (s *stubStore) Refresh(ctx context.Context) error {
	if s.refreshFn == nil {
		return nil
	}
	return s.refreshFn(ctx)
}

// stubBackend embeds ports.Backend so a test only overrides the calls it
// expects; anything else panics on the nil interface.
type stubBackend struct {
	ports.Backend

	getImageFn       func(ctx context.Context, id int64) (*domain.Image, error)
	commentsFn       func(ctx context.Context, imageID int64) ([]domain.Comment, error)
	tagsForImageFn   func(ctx context.Context, imageID int64) ([]domain.Tag, error)
	imageLikedFn     func(ctx context.Context, imageID int64) (bool, error)
	imageSavedFn     func(ctx context.Context, imageID int64) (bool, error)
	createImageFn    func(ctx context.Context, upload domain.ImageUpload) (*domain.Image, error)
	createReportFn   func(ctx context.Context, r domain.NewReport) (*domain.Report, error)
	listUsersFn      func(ctx context.Context) ([]domain.User, error)
	changeRoleFn     func(ctx context.Context, id int64, role domain.Role) error
	markAllReadFn    func(ctx context.Context) error
	userByNameFn     func(ctx context.Context, username string) (*domain.User, error)
	isFollowingFn    func(ctx context.Context, userID int64) (bool, error)
	followCountsFn   func(ctx context.Context, userID int64) (*domain.FollowCounts, error)
	listImagesFn     func(ctx context.Context, q domain.ImageQuery) ([]domain.Image, error)
	updateUserFn     func(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error)
	changePasswordFn func(ctx context.Context, change domain.PasswordChange) error
}

func (s *stubBackend) ImageURL(path string) string { return "https://assets.example/" + path }

func (s *stubBackend) GetImage(ctx context.Context, id int64) (*domain.Image, error) {
	return s.getImageFn(ctx, id)
}

func (s *stubBackend) CommentsForImage(ctx context.Context, imageID int64) ([]domain.Comment, error) {
	return s.commentsFn(ctx, imageID)
}

func (s *stubBackend) TagsForImage(ctx context.Context, imageID int64) ([]domain.Tag, error) {
	return s.tagsForImageFn(ctx, imageID)
}

func (s *stubBackend) ImageLiked(ctx context.Context, imageID int64) (bool, error) {
	return s.imageLikedFn(ctx, imageID)
}

func (s *stubBackend) ImageSaved(ctx context.Context, imageID int64) (bool, error) {
	return s.imageSavedFn(ctx, imageID)
}

func (s *stubBackend) CreateImage(ctx context.Context, upload domain.ImageUpload) (*domain.Image, error) {
	return s.createImageFn(ctx, upload)
}

func (s *stubBackend) CreateReport(ctx context.Context, r domain.NewReport) (*domain.Report, error) {
	return s.createReportFn(ctx, r)
}

func (s *stubBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.listUsersFn(ctx)
}

func (s *stubBackend) ChangeRole(ctx context.Context, id int64, role domain.Role) error {
	return s.changeRoleFn(ctx, id, role)
}

func (s *stubBackend) MarkAllRead(ctx context.Context) error {
	return s.markAllReadFn(ctx)
}

func (s *stubBackend) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userByNameFn(ctx, username)
}

func (s *stubBackend) IsFollowing(ctx context.Context, userID int64) (bool, error) {
	return s.isFollowingFn(ctx, userID)
}

func (s *stubBackend) FollowCounts(ctx context.Context, userID int64) (*domain.FollowCounts, error) {
	return s.followCountsFn(ctx, userID)
}

func (s *stubBackend) ListImages(ctx context.Context, q domain.ImageQuery) ([]domain.Image, error) {
	return s.listImagesFn(ctx, q)
}

func (s *stubBackend) UpdateUser(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	return s.updateUserFn(ctx, id, update)
}

func (s *stubBackend) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	return s.changePasswordFn(ctx, change)
}

type seedCall struct {
	key   string
	id    int64
	liked bool
	saved bool
}

type stubInteractions struct {
	mu       sync.Mutex
	seeds    []seedCall
	follows  map[int64]bool
	toggleFn func(ctx context.Context, key string, id int64) (ports.ToggleState, error)
	toggled  []seedCall
}

func (s *stubInteractions) SeedImage(key string, imageID int64, liked, saved bool, likes int) {
	s.mu.Lock()
	s.seeds = append(s.seeds, seedCall{key: key, id: imageID, liked: liked, saved: saved})
	s.mu.Unlock()
}

func (s *stubInteractions) SeedFollow(key string, userID int64, following bool) {
	s.mu.Lock()
	if s.follows == nil {
		s.follows = make(map[int64]bool)
	}
	s.follows[userID] = following
	s.mu.Unlock()
}

func (s *stubInteractions) SeedComment(string, int64, bool, int) {}

func (s *stubInteractions) toggle(ctx context.Context, key string, id int64) (ports.ToggleState, error) {
	s.mu.Lock()
	s.toggled = append(s.toggled, seedCall{key: key, id: id})
	s.mu.Unlock()
	if s.toggleFn == nil {
		return ports.ToggleState{}, nil
	}
	return s.toggleFn(ctx, key, id)
}

func (s *stubInteractions) ToggleImageLike(ctx context.Context, key string, id int64) (ports.ToggleState, error) {
	return s.toggle(ctx, key, id)
}

func (s *stubInteractions) ToggleSave(ctx context.Context, key string, id int64) (ports.ToggleState, error) {
	return s.toggle(ctx, key, id)
}

func (s *stubInteractions) ToggleFollow(ctx context.Context, key string, id int64) (ports.ToggleState, error) {
	return s.toggle(ctx, key, id)
}

func (s *stubInteractions) ToggleCommentLike(ctx context.Context, key string, id int64) (ports.ToggleState, error) {
	return s.toggle(ctx, key, id)
}

func (s *stubInteractions) State(string) ports.ToggleState { return ports.ToggleState{} }
func (s *stubInteractions) Forget(string)                  {}

type stubUnread struct {
	counts map[string]int
}

func (s *stubUnread) Unread(key string) (int, bool) {
	n, ok := s.counts[key]
	return n, ok
}

func (s *stubUnread) Set(key string, n int) {
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	s.counts[key] = n
}

// newContext builds an Echo context with the store attached the way the
// Session and Guard middlewares would leave it.
func newContext(method, target string, body io.Reader, store *stubStore) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if store != nil {
		c.Set(middleware.ContextKeyStore, store)
		if store.session.User != nil {
			c.Set(middleware.ContextKeyUser, store.session.User)
		}
	}
	return c, rec
}

func loggedIn(role domain.Role) *stubStore {
	return &stubStore{
		key: "key-1",
		session: domain.Session{User: &domain.User{
			ID:       7,
			Username: "ana",
			Role:     role,
		}},
	}
}
