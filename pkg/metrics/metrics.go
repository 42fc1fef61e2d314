package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// AuditWriteFailures counts audit entries that could not be persisted.
	// Audit writes are best-effort, so this counter is the only place those
	// failures become visible.
	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Total number of audit log entries that failed to persist",
		},
	)

	// NotificationFailures counts notification dispatches that failed.
	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_dispatch_failures_total",
			Help: "Total number of notification dispatches that failed",
		},
	)

	// BookingTransitions counts successful lifecycle transitions by target
	// status.
	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Total number of successful booking status transitions",
		},
		[]string{"status"},
	)
)
