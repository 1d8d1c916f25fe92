// Package metrics exposes Prometheus collectors for the intake API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Submissions per intake kind and outcome.
	// outcome: created, duplicate, invalid, misconfigured, store_error
	IntakeSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kavacham_intake_submissions_total",
			Help: "Total number of intake submissions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// Transactional e-mails by template kind and delivery status.
	// status: sent, failed, skipped
	MailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kavacham_mail_deliveries_total",
			Help: "Total number of transactional e-mails by kind and status",
		},
		[]string{"kind", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kavacham_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"method", "route", "status"},
	)
)

// RecordSubmission increments the submission counter.
func RecordSubmission(kind, outcome string) {
	IntakeSubmissions.WithLabelValues(kind, outcome).Inc()
}

// RecordMail increments the mail delivery counter.
func RecordMail(kind, status string) {
	MailDeliveries.WithLabelValues(kind, status).Inc()
}

// RecordHTTPRequest observes one request duration.
func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
