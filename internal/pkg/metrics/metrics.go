// Package metrics defines and registers all custom Prometheus metrics for the
// asset intelligence service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; HTTP request metrics are added separately by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "asset_intel"

// ── Session metrics ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and signup outcomes.
// Labels:
//   - operation: "login" or "signup"
//   - result: "success", "invalid_credentials", "weak_secret", "email_taken", "cancelled" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and signup attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// SessionRepairsTotal counts persisted session records discarded because
// they could not be decoded.
var SessionRepairsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_repairs_total",
		Help:      "Total number of corrupt session records silently discarded.",
	},
)

// GuardRedirectsTotal counts unauthenticated navigations sent to the login page.
var GuardRedirectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of guarded page loads redirected to the login page.",
	},
)

// RoleDenialsTotal counts requests rejected by role checks.
// Labels:
//   - role: the caller's role, or "anonymous"
var RoleDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_denials_total",
		Help:      "Total number of requests rejected because the caller lacked a required role.",
	},
	[]string{"role"},
)

// ── Copilot metrics ───────────────────────────────────────────────────────────

// CopilotMessagesTotal counts assistant replies.
// Labels:
//   - persona: the persona the reply was generated for
//   - type: the response type label (report, analysis, recommendation, insight)
var CopilotMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "copilot_messages_total",
		Help:      "Total number of copilot replies, by persona and response type.",
	},
	[]string{"persona", "type"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityEventsTotal counts processed visitor activity events.
// Labels:
//   - kind: identify, login, signup, logout, chat, page_view
//   - visitor: "known" or "anonymous"
var ActivityEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_total",
		Help:      "Total number of visitor activity events processed.",
	},
	[]string{"kind", "visitor"},
)

// ActivityDroppedTotal counts events discarded because a worker queue was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped on a full queue.",
	},
)

// ActivityQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of events pending in each activity worker channel.",
	},
	[]string{"worker_id"},
)
