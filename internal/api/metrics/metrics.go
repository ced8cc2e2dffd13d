// Package metrics defines and registers all custom Prometheus metrics
// for the HCM services. It is the single source of truth for metric
// names, labels, and help strings; both binaries share it and each
// emits only the series it actually touches.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hcm"

// ── People service metrics ────────────────────────────────────────────────────

// PeopleMutationsTotal counts person mutations.
// Labels:
//   - operation: "create", "update", or "delete"
//   - outcome: "success", "remote_failure", "not_found", or "error"
var PeopleMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "people_mutations_total",
		Help:      "Total number of person mutations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// CompanionCallsTotal counts companion credential calls to the auth service.
// Labels:
//   - operation: "create", "update", or "delete"
//   - outcome: "success" or "failure"
var CompanionCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "companion_calls_total",
		Help:      "Total number of companion credential calls, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// CompanionCallDuration measures the latency of a single companion call.
// Label:
//   - operation: "create", "update", or "delete"
var CompanionCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "companion_call_duration_seconds",
		Help:      "Duration of companion credential calls to the auth service.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"operation"},
)

// CompensationsTotal counts local compensations applied after a failed
// companion call.
// Label:
//   - operation: the mutation that was compensated (e.g. "create")
var CompensationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compensations_total",
		Help:      "Total number of local record compensations after companion call failures.",
	},
	[]string{"operation"},
)

// ── Auth service metrics ──────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid_credentials", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokensIssuedTotal counts identity assertions issued after successful
// logins.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of identity assertions issued.",
	},
)
