package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by method and result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpman_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"method", "result"},
	)

	// RoleChecks counts role authorisation outcomes (allow|deny).
	RoleChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpman_role_checks_total",
			Help: "Total number of role checks",
		},
		[]string{"result"},
	)

	// TokenRevocations counts revoked token ids by reason (logout|password_reset).
	TokenRevocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpman_token_revocations_total",
			Help: "Total number of revoked tokens",
		},
		[]string{"reason"},
	)

	// VerificationCodes counts issued and consumed verification codes.
	VerificationCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpman_verification_codes_total",
			Help: "Verification codes by operation and result",
		},
		[]string{"operation", "result"},
	)

	// NotificationsSent counts outbound mail and sms deliveries.
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpman_notifications_total",
			Help: "Outbound notifications by channel and result",
		},
		[]string{"channel", "result"},
	)

	// TransactionsCompleted counts transactions reaching the completed state by type.
	TransactionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpman_transactions_completed_total",
			Help: "Completed transactions by type",
		},
		[]string{"type"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "corpman_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
