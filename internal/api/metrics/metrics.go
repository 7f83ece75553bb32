// Package metrics defines all custom Prometheus metrics for the assignment
// portal. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts authentication attempts.
// Labels:
//   - kind: "user" or "admin"
//   - method: "local", "facebook" or "jwt"
//   - outcome: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by kind, method and outcome.",
	},
	[]string{"kind", "method", "outcome"},
)

// RegistrationsTotal counts newly created principals.
// Labels:
//   - kind: "user" or "admin"
//   - method: "local" or "facebook" (just-in-time)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of principals registered, by kind and method.",
	},
	[]string{"kind", "method"},
)

// SessionsDestroyedTotal counts logout requests.
// Label:
//   - result: "destroyed" or "absent"
var SessionsDestroyedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_destroyed_total",
		Help:      "Total number of logout requests, by whether a session existed.",
	},
	[]string{"result"},
)

// ── Assignment metrics ────────────────────────────────────────────────────────

// AssignmentsCreatedTotal counts uploaded assignments.
var AssignmentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_created_total",
		Help:      "Total number of assignments uploaded.",
	},
)

// AssignmentTransitionsTotal counts accept/reject decisions.
// Label:
//   - status: "accepted" or "rejected"
var AssignmentTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignment_transitions_total",
		Help:      "Total number of assignment status transitions, by resulting status.",
	},
	[]string{"status"},
)
