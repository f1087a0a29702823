package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Ledger metrics
	LedgerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_calls_total",
			Help: "Total number of ledger RPC calls",
		},
		[]string{"endpoint", "status"},
	)

	LedgerCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_call_duration_seconds",
			Help:    "Ledger RPC call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Board metrics
	ListingsVisibleGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "board_listings_visible",
			Help: "Number of listings currently visible on the board",
		},
	)

	RatedDriversGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "board_rated_drivers",
			Help: "Number of drivers with at least one aggregated rating",
		},
	)

	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_refreshes_total",
			Help: "Total number of board refresh passes",
		},
		[]string{"kind", "status"},
	)

	RecordsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_records_skipped_total",
			Help: "Total number of ledger records skipped during decode",
		},
		[]string{"kind"},
	)

	BroadcastPushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_pushes_total",
			Help: "Total number of position pushes while broadcasting",
		},
		[]string{"status"},
	)

	WebSocketConnectionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket subscribers",
		},
	)
)

// RecordHTTPMetrics records the standard counters for a finished HTTP request
func RecordHTTPMetrics(service, method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)

	HttpRequestsTotal.WithLabelValues(service, method, path, statusStr).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, statusStr).Observe(duration.Seconds())
}

// RecordLedgerCall records outcome and duration of a single ledger RPC call
func RecordLedgerCall(endpoint string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	LedgerCallsTotal.WithLabelValues(endpoint, status).Inc()
	LedgerCallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
