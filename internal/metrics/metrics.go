// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_lookups_total",
			Help: "Response cache lookups by route and result",
		},
		[]string{"path", "result"},
	)

	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_bookings_total",
			Help: "Slot claim attempts by outcome",
		},
		[]string{"outcome"},
	)

	leadsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_submitted_total",
			Help: "Consultation requests persisted, by project type",
		},
		[]string{"project_type"},
	)

	contactsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contacts_submitted_total",
			Help: "Contact form requests persisted, by project type",
		},
		[]string{"project_type"},
	)

	slotsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slots_generated_total",
			Help: "Slots created by the generator",
		},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Outbound notifications by channel and status",
		},
		[]string{"channel", "status"},
	)
)

// Booking outcomes.
const (
	OutcomeBooked      = "booked"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Notification channels and statuses.
const (
	ChannelEmail = "email"
	ChannelPush  = "push"

	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusDropped = "dropped"
)

func RecordCacheLookup(path string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(path, result).Inc()
}

func RecordBooking(outcome string) {
	bookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordLeadSubmitted(projectType string) {
	leadsSubmitted.WithLabelValues(projectType).Inc()
}

func RecordContactSubmitted(projectType string) {
	contactsSubmitted.WithLabelValues(projectType).Inc()
}

func RecordSlotsGenerated(n int) {
	if n > 0 {
		slotsGenerated.Add(float64(n))
	}
}

func RecordNotification(channel, status string) {
	notificationsTotal.WithLabelValues(channel, status).Inc()
}
