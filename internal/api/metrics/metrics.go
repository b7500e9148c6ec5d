// Package metrics defines and registers all custom Prometheus metrics
// for the auth API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authapi"

// LoginsTotal counts login attempts by final outcome.
// Labels:
//   - platform: ADMIN, DEVICE, or CLIENT
//   - result: "success", "user_not_exists", "incorrect_password", "account_locked", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by platform and result.",
	},
	[]string{"platform", "result"},
)

// AccountLockoutsTotal counts accounts transitioning into the locked state.
var AccountLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_lockouts_total",
		Help:      "Total number of accounts locked after exceeding the failure threshold.",
	},
)

// TokenValidationsTotal counts bearer-token checks at the gateway.
// Labels:
//   - platform: validating surface
//   - result: "ok", "invalid", "expired", "revoked", "user_gone"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of token validations at the gateway, by result.",
	},
	[]string{"platform", "result"},
)

// PermissionChecksTotal counts policy decisions.
// Label:
//   - result: "allowed", "denied", "error"
var PermissionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_checks_total",
		Help:      "Total number of route permission checks, by result.",
	},
	[]string{"result"},
)

// LoginDuration measures end-to-end login handling time.
// Label:
//   - platform: calling surface
var LoginDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login processing from request to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"platform"},
)
