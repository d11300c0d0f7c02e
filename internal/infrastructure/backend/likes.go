package backend

import (
	"context"
	"net/http"

	"github.com/snapboard/webclient/internal/core/domain"
)

func (c *Client) LikesForImage(ctx context.Context, imageID int64) ([]domain.User, error) {
	var out list[domain.User]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Likes/image/" + id(imageID)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LikedImages lists the images a user liked; zero means the token holder.
func (c *Client) LikedImages(ctx context.Context, userID int64) ([]domain.Image, error) {
	who := "me"
	if userID > 0 {
		who = id(userID)
	}
	var out list[domain.Image]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Likes/user/" + who}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) LikeImage(ctx context.Context, imageID int64) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/Likes/image/" + id(imageID)}, nil)
}

func (c *Client) UnlikeImage(ctx context.Context, imageID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/Likes/image/" + id(imageID)}, nil)
}

func (c *Client) ImageLiked(ctx context.Context, imageID int64) (bool, error) {
	var f flag
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Likes/check/" + id(imageID)}, &f); err != nil {
		return false, err
	}
	return bool(f), nil
}
