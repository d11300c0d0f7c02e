package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
)

// RequireRole hides screens from users below required by sending them home.
// It only shapes navigation; the backend still authorises every call.
// Must run after Guard.
func RequireRole(required domain.Role, homePath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !domain.HasRole(User(c), required) {
				return c.Redirect(http.StatusSeeOther, homePath)
			}
			return next(c)
		}
	}
}
