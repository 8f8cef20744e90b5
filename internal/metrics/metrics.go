// Package metrics defines the Prometheus instrumentation for the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook event outcomes, used as the "outcome" label on WebhookEvents.
const (
	WebhookOutcomeRejected  = "signature_rejected"
	WebhookOutcomeIgnored   = "ignored"
	WebhookOutcomeRecorded  = "recorded"
	WebhookOutcomeDuplicate = "duplicate"
	WebhookOutcomeFailed    = "storage_failed"
)

var (
	// HTTPRequestDuration observes request latency per route pattern.
	// The label is the registered mux pattern, not the raw URL, to keep
	// cardinality bounded.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "groupfund_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern and status code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "pattern", "status"},
	)

	// WebhookEvents counts processor webhook deliveries by outcome.
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupfund_webhook_events_total",
			Help: "Payment processor webhook deliveries by outcome.",
		},
		[]string{"outcome"},
	)

	// CheckoutSessions counts checkout session creation attempts.
	CheckoutSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupfund_checkout_sessions_total",
			Help: "Checkout session creation attempts by result.",
		},
		[]string{"result"},
	)
)
