package backend

import (
	"context"
	"net/http"

	"github.com/snapboard/webclient/internal/core/domain"
)

func (c *Client) Followers(ctx context.Context, userID int64) ([]domain.User, error) {
	var out list[domain.User]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Follows/followers/" + id(userID)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Following(ctx context.Context, userID int64) ([]domain.User, error) {
	var out list[domain.User]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Follows/following/" + id(userID)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Follow(ctx context.Context, userID int64) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/Follows/" + id(userID)}, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/Follows/" + id(userID)}, nil)
}

func (c *Client) IsFollowing(ctx context.Context, userID int64) (bool, error) {
	var f flag
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Follows/check/" + id(userID)}, &f); err != nil {
		return false, err
	}
	return bool(f), nil
}

func (c *Client) FollowCounts(ctx context.Context, userID int64) (*domain.FollowCounts, error) {
	var fc domain.FollowCounts
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Follows/counts/" + id(userID)}, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}
