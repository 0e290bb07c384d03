// Package metrics defines and registers the custom Prometheus metrics of the
// services hub. It is the single source of truth for metric names, labels
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "serviceshub"

// ── Form metrics ──────────────────────────────────────────────────────────────

// FormSubmissionsTotal counts form submissions.
// Labels:
//   - form: "contact" or "service_request"
//   - result: "accepted" or "rejected" (validation failure)
var FormSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "form_submissions_total",
		Help:      "Total number of form submissions, by form and result.",
	},
	[]string{"form", "result"},
)

// ArchiveDeliveriesTotal counts deliveries of submissions to archive sinks.
// Labels:
//   - sink: sink name (e.g. "mongo", "amqp")
//   - result: "ok", "error" or "dropped"
var ArchiveDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archive_deliveries_total",
		Help:      "Total number of submission deliveries to archive sinks.",
	},
	[]string{"sink", "result"},
)

// ArchiveQueueDepth tracks the submissions waiting in each dispatcher worker channel.
var ArchiveQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "archive_queue_depth",
		Help:      "Current number of submissions pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "ok", "user_exists", "invalid_credentials" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by result.",
	},
	[]string{"operation", "result"},
)

// ── Rate limit metrics ────────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)
