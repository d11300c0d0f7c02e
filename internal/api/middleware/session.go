package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

// Context keys set by the session middlewares.
const (
	ContextKeyStore = "session_store"
	ContextKeyUser  = "user"
)

// SessionConfig controls the browser session cookie.
type SessionConfig struct {
	CookieName string
	Secure     bool
}

// Session resolves the browser's session cookie to its SessionStore, issuing
// a fresh cookie when the browser has none, and tags the request context with
// the session key so backend calls carry its token.
func Session(manager ports.SessionManager, cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := sessionID(c, cfg.CookieName)
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			req := c.Request()
			store := manager.Acquire(req.Context(), id)
			c.SetRequest(req.WithContext(ports.WithSessionKey(req.Context(), store.Key())))
			c.Set(ContextKeyStore, store)

			return next(c)
		}
	}
}

// sessionID returns the cookie value when it is a well-formed UUID.
func sessionID(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// Store returns the SessionStore attached by Session, or nil.
func Store(c echo.Context) ports.SessionStore {
	store, _ := c.Get(ContextKeyStore).(ports.SessionStore)
	return store
}

// User returns the user admitted by Guard, or nil.
func User(c echo.Context) *domain.User {
	user, _ := c.Get(ContextKeyUser).(*domain.User)
	return user
}
