package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/api/middleware"
	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

// ctxStore returns the session store attached by the Session middleware and
// fails fast when the route was mounted without it.
func ctxStore(c echo.Context) (ports.SessionStore, error) {
	store := middleware.Store(c)
	if store == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware missing")
	}
	return store, nil
}

// ctxUser returns the user admitted by Guard. Guarded handlers can rely on it;
// a nil here means the route was mounted without the guard.
func ctxUser(c echo.Context) (*domain.User, error) {
	user := middleware.User(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	return user, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid %s", name)
	}
	return id, nil
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(c echo.Context, name string, def int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// bind decodes and validates a request body.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(dst)
}

type toggleFunc func(ctx context.Context, key string, id int64) (ports.ToggleState, error)

// toggle runs an optimistic toggle for the session and returns the state the
// browser should show. On failure the state has already been reverted.
func toggle(c echo.Context, param string, fn toggleFunc) error {
	id, err := pathID(c, param)
	if err != nil {
		return err
	}
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	state, err := fn(c.Request().Context(), store.Key(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}
