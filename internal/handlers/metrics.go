package handlers

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for monitoring.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics
	TicketsCreatedTotal      *prometheus.CounterVec
	ClassifierFallbacksTotal prometheus.Counter
	PlatformRequestsTotal    *prometheus.CounterVec
}

// NewMetrics creates the service's Prometheus metric collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticket_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ticket_http_request_duration_seconds",
				Help:    "HTTP request processing duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		TicketsCreatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticket_created_total",
				Help: "Total number of tickets created, by final priority",
			},
			[]string{"priority"},
		),
		ClassifierFallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ticket_classifier_fallbacks_total",
				Help: "Total number of routing decisions served from the degraded fallback",
			},
		),
		PlatformRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticket_platform_requests_total",
				Help: "Total number of member-platform proxy requests, by action and outcome",
			},
			[]string{"action", "outcome"},
		),
	}
}

// ObserveRequest records one handled HTTP request. Satisfies
// middleware.RequestMetrics.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Register registers all collectors with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TicketsCreatedTotal,
		m.ClassifierFallbacksTotal,
		m.PlatformRequestsTotal,
	)
}
