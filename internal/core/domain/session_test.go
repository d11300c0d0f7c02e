package domain

import (
	"errors"
	"testing"
)

func TestGuard_ExactlyOneOutcome(t *testing.T) {
	user := &User{ID: 1}
	cases := []struct {
		name    string
		session Session
		want    Outcome
	}{
		{"loading", Session{Loading: true}, OutcomePlaceholder},
		{"loading with stale user", Session{Loading: true, User: user}, OutcomePlaceholder},
		{"authenticated", Session{User: user}, OutcomeRender},
		{"anonymous", Session{}, OutcomeRedirect},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Guard(tc.session); got != tc.want {
				t.Fatalf("Guard = %s, want %s", got, tc.want)
			}
			if got := tc.session.Authenticated(); got != (tc.want == OutcomeRender) {
				t.Fatalf("Authenticated = %v for outcome %s", got, tc.want)
			}
		})
	}
}

func TestAuthError_Matching(t *testing.T) {
	expired := &AuthError{Status: 401, Expired: true}
	if !errors.Is(expired, ErrAuth) || !errors.Is(expired, ErrSessionExpired) {
		t.Fatalf("expired auth error should match ErrAuth and ErrSessionExpired")
	}

	rejected := &AuthError{Status: 401, Message: "invalid credentials"}
	if !errors.Is(rejected, ErrAuth) {
		t.Fatalf("rejected credentials should match ErrAuth")
	}
	if errors.Is(rejected, ErrSessionExpired) {
		t.Fatalf("rejected credentials must not look like an expired session")
	}
}

func TestBackendError_NotFound(t *testing.T) {
	err := error(&BackendError{Status: 404})
	if !errors.Is(err, ErrBackend) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("404 backend error should match ErrBackend and ErrNotFound")
	}
	if errors.Is(&BackendError{Status: 500}, ErrNotFound) {
		t.Fatalf("500 should not match ErrNotFound")
	}
}

func TestNetworkError_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&NetworkError{Op: "GET /Users/me", Err: cause})
	if !errors.Is(err, ErrNetwork) || !errors.Is(err, cause) {
		t.Fatalf("network error should match ErrNetwork and its cause")
	}
}
