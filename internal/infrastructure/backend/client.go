// Package backend is the gateway's only way to talk to the REST API. Every
// call carries the bearer token of the session it is made for, and a 401 on
// an authenticated call clears that session before the error is returned.
package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
	"github.com/snapboard/webclient/internal/pkg/metrics"
)

const (
	defaultTimeout  = 15 * time.Second
	maxErrorBody    = 64 << 10
	expiredMessage  = "session expired, please log in again"
	fallbackMessage = "request failed"
)

// Config captures where the backend lives and how to reach it.
type Config struct {
	BaseURL          string
	AssetURL         string
	PlaceholderImage string
	Timeout          time.Duration
	InsecureTLS      bool
}

// UnauthorizedFunc is called with the session key whose token was just
// rejected by the backend.
type UnauthorizedFunc func(key string)

// Client is the shared HTTP client behind every REST wrapper.
type Client struct {
	base        string
	asset       string
	placeholder string
	http        *http.Client
	tokens      ports.TokenStore
	log         zerolog.Logger

	hookMu         sync.RWMutex
	onUnauthorized UnauthorizedFunc
}

var _ ports.Backend = (*Client)(nil)

// New builds a Client. BaseURL must be absolute.
func New(cfg Config, tokens ports.TokenStore, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: invalid base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureTLS {
		// Development backends run on a self-signed localhost certificate.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	asset := strings.TrimRight(cfg.AssetURL, "/")
	if asset == "" {
		asset = u.Scheme + "://" + u.Host
	}

	return &Client{
		base:        strings.TrimRight(cfg.BaseURL, "/"),
		asset:       asset,
		placeholder: cfg.PlaceholderImage,
		http:        &http.Client{Timeout: timeout, Transport: transport},
		tokens:      tokens,
		log:         log,
	}, nil
}

// OnUnauthorized registers the hook run after a rejected token was deleted.
func (c *Client) OnUnauthorized(fn UnauthorizedFunc) {
	c.hookMu.Lock()
	c.onUnauthorized = fn
	c.hookMu.Unlock()
}

// request describes one backend call.
type request struct {
	method    string
	path      string
	query     url.Values
	body      any
	multipart *multipartBody
	// anonymous calls never carry a token and a 401 on them is a plain
	// credential rejection.
	anonymous bool
}

type multipartBody struct {
	contentType string
	data        []byte
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	target := c.base + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.multipart != nil:
		body = bytes.NewReader(req.multipart.data)
		contentType = req.multipart.contentType
	case req.body != nil:
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	key, hasKey := ports.SessionKey(ctx)
	if !req.anonymous && hasKey {
		token, err := c.tokens.Get(ctx, key)
		switch {
		case err == nil:
			httpReq.Header.Set("Authorization", "Bearer "+token)
		case errors.Is(err, ports.ErrNoToken):
		default:
			return fmt.Errorf("token lookup: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.BackendRequestDuration.WithLabelValues(req.method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(req.method, "network_error").Inc()
		return &domain.NetworkError{Op: req.method + " " + req.path, Err: err}
	}
	defer resp.Body.Close()
	metrics.BackendRequestsTotal.WithLabelValues(req.method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= http.StatusBadRequest {
		msg := errorMessage(resp)
		if resp.StatusCode == http.StatusUnauthorized {
			if req.anonymous {
				return &domain.AuthError{Status: resp.StatusCode, Message: msg}
			}
			if hasKey {
				c.expire(ctx, key)
			}
			return &domain.AuthError{Status: resp.StatusCode, Message: expiredMessage, Expired: true}
		}
		return &domain.BackendError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.NetworkError{Op: "read " + req.path, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.BackendError{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response from %s: %v", req.path, err)}
	}
	return nil
}

// expire deletes the rejected token and tells the session layer.
func (c *Client) expire(ctx context.Context, key string) {
	if err := c.tokens.Delete(context.WithoutCancel(ctx), key); err != nil {
		c.log.Error().Err(err).Msg("failed to delete rejected token")
	}
	c.hookMu.RLock()
	hook := c.onUnauthorized
	c.hookMu.RUnlock()
	if hook != nil {
		hook(key)
	}
	c.log.Info().Str("session", shortKey(key)).Msg("backend rejected token, session cleared")
}

// errorMessage pulls a human message out of an error response. The backend
// normally sends {"message": "..."}; validation failures come back as
// problem details with a title.
func errorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 {
		var payload struct {
			Message string `json:"message"`
			Title   string `json:"title"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			for _, m := range []string{payload.Message, payload.Error, payload.Title} {
				if m != "" {
					return m
				}
			}
		}
		var plain string
		if err := json.Unmarshal(raw, &plain); err == nil && plain != "" {
			return plain
		}
		if raw[0] != '{' && raw[0] != '[' && raw[0] != '<' {
			return truncate(string(raw), 200)
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fallbackMessage
}

// Ping checks that the backend answers at all. Any HTTP response counts;
// only a transport failure is reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: "ping", Err: err}
	}
	resp.Body.Close()
	return nil
}

// ImageURL resolves an image path the way the browser would: absolute URLs
// pass through, relative ones hang off the asset host, empty ones get the
// placeholder.
func (c *Client) ImageURL(path string) string {
	switch {
	case path == "":
		return c.placeholder
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "/"):
		return c.asset + path
	default:
		return c.asset + "/" + path
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func shortKey(key string) string {
	return truncate(key, 8)
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
