package ports

import "context"

type sessionKeyCtx struct{}

// WithSessionKey tags ctx with the storage key of the browser session a
// backend call is made for. The HTTP client reads the bearer token under it.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyCtx{}, key)
}

// SessionKey returns the session key carried by ctx, if any.
func SessionKey(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(sessionKeyCtx{}).(string)
	return key, ok && key != ""
}
