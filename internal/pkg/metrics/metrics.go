// Package metrics defines and registers the custom Prometheus metrics of the
// snapboard web gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register with the default Prometheus registry on import; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "snapboard_web"

// ── Inbound HTTP metrics ─────────────────────────────────────────────────────

// HTTPRequestsTotal counts requests served by the gateway.
// Labels:
//   - method: HTTP method
//   - route: the matched route pattern, not the raw path
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request handling time per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Backend client metrics ───────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the REST backend.
// Labels:
//   - method: HTTP method
//   - status: response status code, or "network_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the REST backend.",
	},
	[]string{"method", "status"},
)

// BackendRequestDuration measures backend round trips.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the REST backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionsActive tracks the number of resident browser sessions.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of browser sessions currently held in memory.",
	},
)

// SessionEndsTotal counts sessions that lost their user.
// Label:
//   - reason: "logout", "unauthorized", "bootstrap_failed" or "idle"
var SessionEndsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_ends_total",
		Help:      "Total number of sessions ended, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - outcome: "placeholder", "render" or "redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Interaction metrics ──────────────────────────────────────────────────────

// OptimisticRevertsTotal counts optimistic toggles rolled back after the
// backend refused them.
// Label:
//   - action: "like", "save", "follow" or "comment_like"
var OptimisticRevertsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "optimistic_reverts_total",
		Help:      "Total number of optimistic updates reverted, by action.",
	},
	[]string{"action"},
)

// ── Polling metrics ──────────────────────────────────────────────────────────

// UnreadPollsTotal counts unread-notification refreshes.
// Label:
//   - result: "ok" or "error"
var UnreadPollsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unread_polls_total",
		Help:      "Total number of unread notification count refreshes.",
	},
	[]string{"result"},
)

// RefreshQueueDepth tracks pending refreshes in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_queue_depth",
		Help:      "Current number of refreshes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
