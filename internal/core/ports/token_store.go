package ports

import (
	"context"
	"errors"
)

// ErrNoToken is returned by TokenStore.Get when nothing is stored for the key.
var ErrNoToken = errors.New("no token stored")

// TokenStore is the durable home of the bearer token, one entry per browser
// session key. Presence of an entry is the only "logged in" signal read at
// startup.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, token string) error
	Delete(ctx context.Context, key string) error
}
