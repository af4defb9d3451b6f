package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_http_requests_total",
			Help: "Total number of HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviehub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_registrations_total",
			Help: "User registrations by outcome",
		},
		[]string{"outcome"}, // "created", "conflict", "invalid", "error"
	)

	RatingSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_rating_submissions_total",
			Help: "Rating submissions by outcome",
		},
		[]string{"outcome"}, // "accepted", "invalid", "not_found", "error"
	)

	BackgroundTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_background_tasks_total",
			Help: "Background tasks finished, split by whether they panicked",
		},
		[]string{"result"},
	)
)

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordRegistration(outcome string) {
	Registrations.WithLabelValues(outcome).Inc()
}

func RecordRatingSubmission(outcome string) {
	RatingSubmissions.WithLabelValues(outcome).Inc()
}

func RecordBackgroundTask(panicked bool) {
	result := "ok"
	if panicked {
		result = "panic"
	}
	BackgroundTasks.WithLabelValues(result).Inc()
}
