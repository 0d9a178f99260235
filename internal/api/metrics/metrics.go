// Package metrics defines and registers all custom Prometheus metrics for
// the auth API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// TokensIssuedTotal counts successfully issued session tokens.
// Label:
//   - operation: "signup" or "signin"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued, by operation.",
	},
	[]string{"operation"},
)

// TokenVerificationsTotal counts request-time token verification outcomes.
// The wire response never distinguishes failure kinds; this metric is where
// the distinction is preserved.
// Label:
//   - result: "ok", "expired", "bad_signature", "malformed", "bad_scheme", "no_credential"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of token verification attempts, by result.",
	},
	[]string{"result"},
)

// AuthzDecisionsTotal counts access-control decisions on protected routes.
// Label:
//   - decision: "allowed", "denied_unauthenticated", "denied_forbidden"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by outcome.",
	},
	[]string{"decision"},
)

// IssuanceErrorsTotal counts failed signup/signin attempts.
// Labels:
//   - operation: "signup" or "signin"
//   - reason: short failure description (e.g. "invalid_role", "duplicate_email", "user_not_found")
var IssuanceErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issuance_errors_total",
		Help:      "Total number of failed token issuance attempts, by operation and reason.",
	},
	[]string{"operation", "reason"},
)

// RateLimitedTotal counts requests rejected by the issuance rate limiter.
// Label:
//   - route: the limited route path
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the issuance rate limiter.",
	},
	[]string{"route"},
)
