package backend

import (
	"context"
	"net/http"

	"github.com/snapboard/webclient/internal/core/domain"
)

func (c *Client) CommentsForImage(ctx context.Context, imageID int64) ([]domain.Comment, error) {
	var out list[domain.Comment]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Comments/image/" + id(imageID)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetComment(ctx context.Context, commentID int64) (*domain.Comment, error) {
	var cm domain.Comment
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Comments/" + id(commentID)}, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *Client) CreateComment(ctx context.Context, nc domain.NewComment) (*domain.Comment, error) {
	var cm domain.Comment
	if err := c.do(ctx, request{method: http.MethodPost, path: "/Comments", body: nc}, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *Client) UpdateComment(ctx context.Context, commentID int64, content string) (*domain.Comment, error) {
	var cm domain.Comment
	body := map[string]string{"content": content}
	if err := c.do(ctx, request{method: http.MethodPut, path: "/Comments/" + id(commentID), body: body}, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/Comments/" + id(commentID)}, nil)
}

func (c *Client) Replies(ctx context.Context, commentID int64) ([]domain.Comment, error) {
	var out list[domain.Comment]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Comments/" + id(commentID) + "/replies"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) LikeComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/CommentLikes/comment/" + id(commentID)}, nil)
}

func (c *Client) UnlikeComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/CommentLikes/comment/" + id(commentID)}, nil)
}

func (c *Client) CommentLiked(ctx context.Context, commentID int64) (bool, error) {
	var f flag
	if err := c.do(ctx, request{method: http.MethodGet, path: "/CommentLikes/check/" + id(commentID)}, &f); err != nil {
		return false, err
	}
	return bool(f), nil
}

func (c *Client) CommentLikesCount(ctx context.Context, commentID int64) (int, error) {
	var n count
	if err := c.do(ctx, request{method: http.MethodGet, path: "/CommentLikes/count/" + id(commentID)}, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}
