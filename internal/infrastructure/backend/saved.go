package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/snapboard/webclient/internal/core/domain"
)

func (c *Client) SavedImages(ctx context.Context) ([]domain.Image, error) {
	var out list[domain.Image]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/SavedImages"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SavedImagesOf(ctx context.Context, userID int64) ([]domain.Image, error) {
	var out list[domain.Image]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/SavedImages/user/" + id(userID)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SavedImagesPage(ctx context.Context, page, pageSize int) (*domain.Page[domain.Image], error) {
	q := url.Values{"page": {strconv.Itoa(page)}, "pageSize": {strconv.Itoa(pageSize)}}
	var p domain.Page[domain.Image]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/SavedImages/paged", query: q}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SaveImage(ctx context.Context, imageID int64) error {
	body := map[string]int64{"imageId": imageID}
	return c.do(ctx, request{method: http.MethodPost, path: "/SavedImages", body: body}, nil)
}

func (c *Client) UnsaveImage(ctx context.Context, imageID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/SavedImages/" + id(imageID)}, nil)
}

func (c *Client) ImageSaved(ctx context.Context, imageID int64) (bool, error) {
	var f flag
	if err := c.do(ctx, request{method: http.MethodGet, path: "/SavedImages/check/" + id(imageID)}, &f); err != nil {
		return false, err
	}
	return bool(f), nil
}
