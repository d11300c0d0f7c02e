package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/snapboard/webclient/internal/core/domain"
)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out list[domain.User]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Users"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Users/" + id(userID)}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	path := "/Users/username/" + url.PathEscape(username)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID int64, update domain.ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, request{method: http.MethodPut, path: "/Users/" + id(userID), body: update}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/Users/change-password", body: change}, nil)
}

// ChangeRole sends the ordinal role; the backend has no string form.
func (c *Client) ChangeRole(ctx context.Context, userID int64, role domain.Role) error {
	body := map[string]int{"role": int(role)}
	return c.do(ctx, request{method: http.MethodPut, path: "/Users/" + id(userID) + "/role", body: body}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/Users/" + id(userID)}, nil)
}
