package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/pkg/metrics"
)

// Guard admits only authenticated sessions. While the session is still
// bootstrapping it answers 202 with a loading marker; with no user it
// redirects home.
func Guard(homePath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := Store(c)
			if store == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session middleware missing")
			}

			snap := store.Snapshot()
			outcome := domain.Guard(snap)
			metrics.GuardDecisionsTotal.WithLabelValues(outcome.String()).Inc()

			switch outcome {
			case domain.OutcomePlaceholder:
				return c.JSON(http.StatusAccepted, map[string]string{"status": "loading"})
			case domain.OutcomeRedirect:
				return c.Redirect(http.StatusSeeOther, homePath)
			}

			c.Set(ContextKeyUser, snap.User)
			return next(c)
		}
	}
}
