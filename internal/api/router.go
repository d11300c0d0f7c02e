package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/snapboard/webclient/internal/api/handler"
	"github.com/snapboard/webclient/internal/api/middleware"
	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

// UnreadBadge is the polled unread count, readable per session and
// correctable after the user reads notifications.
type UnreadBadge interface {
	ports.UnreadCounter
	Set(key string, n int)
}

// Deps is everything the router wires into handlers.
type Deps struct {
	Log          zerolog.Logger
	Backend      ports.Backend
	Sessions     ports.SessionManager
	Interactions ports.InteractionService
	Unread       UnreadBadge
	Cookie       middleware.SessionConfig
	LoginPath    string
	HomePath     string
	Checks       []handler.DependencyCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.LoginPath)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.Metrics())

	// --- Operational endpoints (no session) ---
	e.GET("/health", handler.Liveness)
	e.GET("/health/ready", handler.NewHealthHandler(d.Checks...).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	b := d.Backend
	screens := handler.NewScreens(d.Unread)
	sessions := handler.NewSessionHandler(screens, d.HomePath)
	feed := handler.NewFeedHandler(b, b, screens)
	search := handler.NewSearchHandler(b, b, screens)
	images := handler.NewImageHandler(handler.ImageAPIs{
		Images: b, Comments: b, Tags: b, Likes: b, Saved: b, Reports: b,
	}, d.Interactions, screens)
	profiles := handler.NewProfileHandler(handler.ProfileAPIs{
		Users: b, Images: b, Likes: b, Saved: b, Follows: b,
	}, d.Interactions, screens)
	notifications := handler.NewNotificationHandler(b, b, d.Unread, screens)
	admin := handler.NewAdminHandler(b, b, b, screens)
	reports := handler.NewReportsHandler(b, screens)

	sess := middleware.Session(d.Sessions, d.Cookie)
	guard := middleware.Guard(d.HomePath)

	// --- Session ---
	e.GET("/session", sessions.Session, sess)
	e.GET("/login", sessions.LoginScreen, sess)
	e.POST("/login", sessions.Login, sess)
	e.GET("/register", sessions.RegisterScreen, sess)
	e.POST("/register", sessions.Register, sess)
	e.POST("/logout", sessions.Logout, sess)

	// --- Public screens ---
	e.GET("/", feed.Home, sess)
	e.GET("/explore", feed.Explore, sess)
	e.GET("/search", search.Search, sess)
	e.GET("/images/:id", images.Detail, sess)
	e.GET("/comments/:id/replies", images.Replies, sess)
	e.GET("/users/:username", profiles.UserProfile, sess)

	// --- Guarded screens and interactions ---
	e.GET("/profile", profiles.Profile, sess, guard)
	e.PUT("/profile", profiles.UpdateProfile, sess, guard)
	e.PUT("/profile/password", profiles.ChangePassword, sess, guard)
	e.POST("/follow/:id", profiles.ToggleFollow, sess, guard)

	e.GET("/upload", images.UploadForm, sess, guard)
	e.POST("/upload", images.Upload, sess, guard)
	e.PUT("/images/:id", images.Update, sess, guard)
	e.DELETE("/images/:id", images.Delete, sess, guard)
	e.POST("/images/:id/like", images.ToggleLike, sess, guard)
	e.POST("/images/:id/save", images.ToggleSave, sess, guard)
	e.POST("/images/:id/report", images.Report, sess, guard)
	e.POST("/images/:id/comments", images.CreateComment, sess, guard)
	e.PUT("/comments/:id", images.UpdateComment, sess, guard)
	e.DELETE("/comments/:id", images.DeleteComment, sess, guard)
	e.POST("/comments/:id/like", images.ToggleCommentLike, sess, guard)

	e.GET("/notifications", notifications.List, sess, guard)
	e.PUT("/notifications/read-all", notifications.MarkAllRead, sess, guard)
	e.PUT("/notifications/:id/read", notifications.MarkRead, sess, guard)
	e.DELETE("/notifications/:id", notifications.Delete, sess, guard)

	// --- Role-gated screens ---
	adminGroup := e.Group("/admin", sess, guard, middleware.RequireRole(domain.RoleAdmin, d.HomePath))
	adminGroup.GET("", admin.Dashboard)
	adminGroup.GET("/users", admin.Users)
	adminGroup.PUT("/users/:id/role", admin.ChangeRole)
	adminGroup.DELETE("/users/:id", admin.DeleteUser)

	reportGroup := e.Group("/manage-reports", sess, guard, middleware.RequireRole(domain.RoleManager, d.HomePath))
	reportGroup.GET("", reports.List)
	reportGroup.GET("/pending-count", reports.PendingCount)
	reportGroup.PUT("/:id/resolve", reports.Resolve)

	return e
}

// requestLogger feeds echo's request logging into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
