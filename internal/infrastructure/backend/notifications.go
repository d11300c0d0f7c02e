package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/snapboard/webclient/internal/core/domain"
)

func (c *Client) Notifications(ctx context.Context, page, pageSize int) ([]domain.Notification, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	var out list[domain.Notification]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Notifications", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetNotification(ctx context.Context, notificationID int64) (*domain.Notification, error) {
	var n domain.Notification
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Notifications/" + id(notificationID)}, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) MarkRead(ctx context.Context, notificationID int64) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/Notifications/" + id(notificationID) + "/read"}, nil)
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/Notifications/mark-all-read"}, nil)
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var n count
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Notifications/unread-count"}, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (c *Client) NotificationSummary(ctx context.Context) (*domain.NotificationSummary, error) {
	var s domain.NotificationSummary
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Notifications/summary"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteNotification(ctx context.Context, notificationID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/Notifications/" + id(notificationID)}, nil)
}
