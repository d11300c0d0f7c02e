package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
	"github.com/snapboard/webclient/internal/infrastructure/db/memory"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *memory.TokenStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	tokens := memory.NewTokenStore()
	c, err := New(Config{BaseURL: srv.URL + "/api", AssetURL: "https://assets.example", PlaceholderImage: "/placeholder.jpg"}, tokens, zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, tokens
}

func TestDo_AttachesBearerForSession(t *testing.T) {
	var gotAuth, gotPath string
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"userId":7,"username":"ana","role":1}`))
	})
	_ = tokens.Set(context.Background(), "k1", "tok-abc")

	u, err := c.Me(ports.WithSessionKey(context.Background(), "k1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotPath != "/api/Users/me" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if u.ID != 7 || u.Role != domain.RoleManager {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})

	if _, err := c.ListImages(ports.WithSessionKey(context.Background(), "k1"), domain.ImageQuery{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestDo_UnauthorizedClearsTokenAndNotifies(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	ctx := context.Background()
	_ = tokens.Set(ctx, "k1", "stale")

	var (
		mu       sync.Mutex
		notified []string
	)
	c.OnUnauthorized(func(key string) {
		mu.Lock()
		notified = append(notified, key)
		mu.Unlock()
	})

	_, err := c.UnreadCount(ports.WithSessionKey(ctx, "k1"))
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := tokens.Get(ctx, "k1"); !errors.Is(err, ports.ErrNoToken) {
		t.Fatalf("expected token to be deleted, got %v", err)
	}
	if len(notified) != 1 || notified[0] != "k1" {
		t.Fatalf("expected hook called once with k1, got %v", notified)
	}
}

func TestLogin_UnauthorizedIsCredentialRejection(t *testing.T) {
	var gotAuth string
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid username or password"}`))
	})
	ctx := context.Background()
	_ = tokens.Set(ctx, "k1", "still-valid")

	called := false
	c.OnUnauthorized(func(string) { called = true })

	_, err := c.Login(ports.WithSessionKey(ctx, "k1"), domain.Credentials{Username: "ana", Password: "bad"})

	var authErr *domain.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Expired || errors.Is(err, domain.ErrSessionExpired) {
		t.Fatal("login rejection must not be reported as an expired session")
	}
	if authErr.Message != "Invalid username or password" {
		t.Fatalf("unexpected message %q", authErr.Message)
	}
	if gotAuth != "" {
		t.Fatalf("login must be sent anonymously, got %q", gotAuth)
	}
	if called {
		t.Fatal("unauthorized hook must not run for login")
	}
	if tok, _ := tokens.Get(ctx, "k1"); tok != "still-valid" {
		t.Fatalf("stored token must be untouched, got %q", tok)
	}
}

func TestDo_BackendErrorCarriesMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Username already exists"}`))
	})

	err := c.Register(context.Background(), domain.Registration{Username: "ana"})

	var be *domain.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Status != http.StatusConflict || be.Message != "Username already exists" {
		t.Fatalf("unexpected error %+v", be)
	}
}

func TestDo_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.GetImage(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: base}, memory.NewTokenStore(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.ListTags(context.Background())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestNew_RejectsRelativeBase(t *testing.T) {
	if _, err := New(Config{BaseURL: "/api"}, memory.NewTokenStore(), zerolog.Nop()); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

func TestImageURL(t *testing.T) {
	c, _ := newTestClient(t, func(http.ResponseWriter, *http.Request) {})

	cases := [][2]string{
		{"", "/placeholder.jpg"},
		{"https://cdn.example/a.jpg", "https://cdn.example/a.jpg"},
		{"http://cdn.example/b.jpg", "http://cdn.example/b.jpg"},
		{"/uploads/c.jpg", "https://assets.example/uploads/c.jpg"},
		{"uploads/d.jpg", "https://assets.example/uploads/d.jpg"},
	}
	for _, tc := range cases {
		if got := c.ImageURL(tc[0]); got != tc[1] {
			t.Errorf("ImageURL(%q) = %q, want %q", tc[0], got, tc[1])
		}
	}
}

func TestPing(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("any response should count as reachable, got %v", err)
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	down, err := New(Config{BaseURL: base}, memory.NewTokenStore(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := down.Ping(context.Background()); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}
