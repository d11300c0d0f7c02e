package backend

import (
	"context"
	"net/http"

	"github.com/snapboard/webclient/internal/core/domain"
)

// Login posts credentials without any bearer token attached.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	var res domain.LoginResult
	err := c.do(ctx, request{method: http.MethodPost, path: "/Auth/login", body: creds, anonymous: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account. It does not log the new user in.
func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/Auth/register", body: reg, anonymous: true}, nil)
}

// Me fetches the full profile of the token holder.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Users/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
