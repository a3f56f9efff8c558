package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the dedicated registry served at /api/metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Custom histogram buckets optimized for API response times
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	DBRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Storage Client Metrics
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Auth Metrics
	LoginRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgeit_auth_login_requests_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	LoginDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bridgeit_auth_login_duration_seconds",
			Help:    "Login processing duration in seconds",
			Buckets: CustomAPIBuckets,
		},
	)

	GuardDecisions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgeit_route_guard_decisions_total",
			Help: "Route guard decisions by outcome",
		},
		[]string{"decision"},
	)

	// OTP Metrics
	OtpRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgeit_otp_requests_total",
			Help: "OTP challenge operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// Registration Metrics
	Registrations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgeit_registrations_total",
			Help: "Registration flow events by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	// Email trigger metrics
	EmailTriggerCalls = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgeit_email_trigger_calls_total",
			Help: "OTP email webhook dispatches by outcome",
		},
		[]string{"outcome"},
	)
)

// Init registers process-level collectors. Safe to call once at startup.
func Init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// MeasureDuration returns elapsed seconds since start, for histogram observation.
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
