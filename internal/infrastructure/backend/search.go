package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/snapboard/webclient/internal/core/domain"
)

func (c *Client) Search(ctx context.Context, query string, limit int) (*domain.SearchResult, error) {
	q := url.Values{"query": {query}, "limit": {strconv.Itoa(limit)}}
	var res domain.SearchResult
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Search", query: q}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SearchImages(ctx context.Context, query string, page, pageSize int) (*domain.Page[domain.Image], error) {
	var p domain.Page[domain.Image]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Search/images", query: pageQuery(query, page, pageSize)}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string, page, pageSize int) (*domain.Page[domain.User], error) {
	var p domain.Page[domain.User]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Search/users", query: pageQuery(query, page, pageSize)}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func pageQuery(query string, page, pageSize int) url.Values {
	return url.Values{
		"query":    {query},
		"page":     {strconv.Itoa(page)},
		"pageSize": {strconv.Itoa(pageSize)},
	}
}
