package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

// unreadSetter lets the handler correct the polled count right after the
// user reads notifications, without waiting for the next poll.
type unreadSetter interface {
	Set(key string, n int)
}

// NotificationHandler serves the notification feed.
type NotificationHandler struct {
	notifications ports.NotificationAPI
	urls          urlResolver
	unread        unreadSetter
	screens       *Screens
}

func NewNotificationHandler(notifications ports.NotificationAPI, urls urlResolver, unread unreadSetter, screens *Screens) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, urls: urls, unread: unread, screens: screens}
}

type notificationsData struct {
	Notifications []domain.Notification       `json:"notifications"`
	Summary       *domain.NotificationSummary `json:"summary"`
	Page          int                         `json:"page"`
	PageSize      int                         `json:"pageSize"`
}

// List renders a page of notifications with the unread summary.
//
// @Summary      Notifications
// @Tags         notifications
// @Produce      json
// @Param        page      query     int  false  "Page"
// @Param        pageSize  query     int  false  "Page size"
// @Success      200  {object}  Screen
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	page := queryInt(c, "page", 1)
	size := queryInt(c, "pageSize", defaultPageSize)

	items, err := h.notifications.Notifications(ctx, page, size)
	if err != nil {
		return err
	}
	summary, err := h.notifications.NotificationSummary(ctx)
	if err != nil {
		return err
	}
	if store, err := ctxStore(c); err == nil {
		h.unread.Set(store.Key(), summary.Unread)
	}
	for i := range items {
		if items[i].ImageURL != "" {
			items[i].ImageURL = h.urls.ImageURL(items[i].ImageURL)
		}
	}
	return h.screens.Render(c, http.StatusOK, "notifications", notificationsData{
		Notifications: items,
		Summary:       summary,
		Page:          page,
		PageSize:      size,
	})
}

// MarkRead marks one notification as read.
//
// @Summary      Mark notification read
// @Tags         notifications
// @Param        id   path  int  true  "Notification ID"
// @Success      204
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.notifications.MarkRead(ctx, id); err != nil {
		return err
	}
	if n, err := h.notifications.UnreadCount(ctx); err == nil {
		if store, err := ctxStore(c); err == nil {
			h.unread.Set(store.Key(), n)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead clears the unread badge.
//
// @Summary      Mark all notifications read
// @Tags         notifications
// @Success      204
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAllRead(c.Request().Context()); err != nil {
		return err
	}
	h.unread.Set(store.Key(), 0)
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a notification.
//
// @Summary      Delete notification
// @Tags         notifications
// @Param        id   path  int  true  "Notification ID"
// @Success      204
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.DeleteNotification(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
