// Package metrics defines and registers the custom Prometheus metrics of the
// task API. HTTP request metrics come from echoprometheus; this package only
// holds the domain counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskmanager"

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - priority: "low", "medium" or "high"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// TasksUpdatedTotal counts successful task updates.
// Label:
//   - status: the task status after the update
var TasksUpdatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_updated_total",
		Help:      "Total number of task updates, by resulting status.",
	},
	[]string{"status"},
)

var TasksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_deleted_total",
		Help:      "Total number of tasks deleted.",
	},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// AuthorizationDeniedTotal counts requests refused by access control.
// Label:
//   - scope: "task" for ownership checks, "role" for role gated routes
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied by access control.",
	},
	[]string{"scope"},
)

// RateLimitDecisionsTotal counts rate limiter outcomes.
// Label:
//   - result: "allowed", "limited" or "error" (limiter unavailable, request let through)
var RateLimitDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Total number of rate limit checks, labelled by result.",
	},
	[]string{"result"},
)
