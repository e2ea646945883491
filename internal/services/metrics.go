package services

import "github.com/prometheus/client_golang/prometheus"

// Domain counters, exported on /metrics next to the HTTP collectors.
var (
	doubtsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "doubtdesk_doubts_created_total",
		Help: "Total number of doubts posted.",
	})

	responsesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "doubtdesk_responses_created_total",
		Help: "Total number of responses posted.",
	})

	notificationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "doubtdesk_notifications_created_total",
		Help: "Total number of notifications stored.",
	})

	// authFailures is labelled by a small fixed set of reasons:
	// credentials, token, unknown_user, reset_token.
	authFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "doubtdesk_auth_failures_total",
		Help: "Authentication and credential failures by reason.",
	}, []string{"reason"})

	expiredPurged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "doubtdesk_expired_rows_purged_total",
		Help: "Expired reset tokens and idempotency records removed by the sweeper.",
	}, []string{"table"})
)

func init() {
	prometheus.MustRegister(doubtsCreated, responsesCreated, notificationsCreated, authFailures, expiredPurged)
}
