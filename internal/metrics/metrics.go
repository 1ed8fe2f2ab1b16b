// Package metrics exposes prometheus instruments for the billing and
// session subsystems.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SeatSyncTotal counts seat reconciliation runs by result
	// (modified, noop, error).
	SeatSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seatwise_seat_sync_total",
		Help: "Seat reconciliation runs by result.",
	}, []string{"result"})

	// WebhookEventsTotal counts received billing webhook events.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seatwise_webhook_events_total",
		Help: "Stripe webhook events by type and outcome.",
	}, []string{"type", "outcome"})

	// SessionsSweptTotal counts sessions deleted by the inactivity sweep.
	SessionsSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seatwise_sessions_swept_total",
		Help: "Sessions deleted by the inactivity sweep.",
	})

	// EntitlementChecksTotal counts evaluator verdicts.
	EntitlementChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seatwise_entitlement_checks_total",
		Help: "Entitlement evaluations by operation and verdict.",
	}, []string{"operation", "verdict"})

	// RequestDuration observes HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seatwise_http_request_duration_seconds",
		Help:    "HTTP request latency by route, method, and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)
