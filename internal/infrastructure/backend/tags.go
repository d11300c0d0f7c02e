package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/snapboard/webclient/internal/core/domain"
)

func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return c.tags(ctx, "/Tags", nil)
}

func (c *Client) GetTag(ctx context.Context, tagID int64) (*domain.Tag, error) {
	var t domain.Tag
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Tags/" + id(tagID)}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	var t domain.Tag
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Tags/name/" + url.PathEscape(name)}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	var t domain.Tag
	body := map[string]string{"name": name}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/Tags", body: body}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTag(ctx context.Context, tagID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/Tags/" + id(tagID)}, nil)
}

func (c *Client) ImagesByTag(ctx context.Context, tagID int64) ([]domain.Image, error) {
	var out list[domain.Image]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Tags/images/tag/" + id(tagID)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ImagesByTagName(ctx context.Context, name string) ([]domain.Image, error) {
	var out list[domain.Image]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Tags/images/name/" + url.PathEscape(name)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TagImage(ctx context.Context, imageID, tagID int64) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/Tags/image/" + id(imageID) + "/tag/" + id(tagID)}, nil)
}

func (c *Client) UntagImage(ctx context.Context, imageID, tagID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/Tags/image/" + id(imageID) + "/tag/" + id(tagID)}, nil)
}

func (c *Client) TagsForImage(ctx context.Context, imageID int64) ([]domain.Tag, error) {
	return c.tags(ctx, "/Tags/image/"+id(imageID), nil)
}

func (c *Client) PopularTags(ctx context.Context, n int) ([]domain.Tag, error) {
	return c.tags(ctx, "/Tags/popular", url.Values{"count": {strconv.Itoa(n)}})
}

func (c *Client) tags(ctx context.Context, path string, q url.Values) ([]domain.Tag, error) {
	var out list[domain.Tag]
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
