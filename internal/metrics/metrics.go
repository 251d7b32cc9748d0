package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all planner metrics
const namespace = "planora"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// AppInfo exposes application version information as labels
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// HTTPRequestsTotal counts handled HTTP requests by method, path, and status
var HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled",
	},
	[]string{"method", "path", "status"},
)

// HTTPRequestDuration tracks request latency by method and path
var HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"method", "path"},
)

// ReminderEventsScanned counts events read by reminder sweeps
var ReminderEventsScanned = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_events_scanned_total",
		Help:      "Total number of events read by reminder sweeps",
	},
)

// ReminderEventsMatched counts events that matched a sweep's target date
var ReminderEventsMatched = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_events_matched_total",
		Help:      "Total number of events matching the sweep target date",
	},
)

// ReminderNotificationsSent counts digests delivered successfully
var ReminderNotificationsSent = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_notifications_sent_total",
		Help:      "Total number of reminder digests delivered",
	},
)

// ReminderNotificationErrors counts per-owner delivery failures
var ReminderNotificationErrors = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_notification_errors_total",
		Help:      "Total number of reminder digest delivery failures",
	},
)

// ReminderSweepFailures counts sweeps aborted in the scan phase
var ReminderSweepFailures = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_sweep_failures_total",
		Help:      "Total number of reminder sweeps aborted before dispatch",
	},
)

// Init registers standard collectors and records build information.
func Init(version, commit, buildDate string) {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}
