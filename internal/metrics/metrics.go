// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks in-flight requests.
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	// EncodeTotal counts encode calls by result.
	EncodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqids_encode_total",
			Help: "Total number of id encodings by result",
		},
		[]string{"result"},
	)

	// DecodeTotal counts decode calls by result.
	DecodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqids_decode_total",
			Help: "Total number of id decodings by result",
		},
		[]string{"result"},
	)

	// IDLength records the length of encoded ids.
	IDLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sqids_id_length",
			Help:    "Length of encoded ids in characters",
			Buckets: prometheus.LinearBuckets(2, 4, 16),
		},
	)

	// CacheHitsTotal counts cache hits.
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMissesTotal counts cache misses.
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// DBQueryDuration measures database query latency.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// ResourcesCreatedTotal counts registered resources.
	ResourcesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resources_created_total",
			Help: "Total number of resources registered",
		},
	)
)

// Result labels for encode and decode counters.
const (
	ResultOK        = "ok"
	ResultEmpty     = "empty"
	ResultError     = "error"
	ResultInvalid   = "invalid"
	ResultExhausted = "exhausted"
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request metric.
func RecordRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordEncode records an encode call and, when it produced one, the id length.
func RecordEncode(result string, idLength int) {
	EncodeTotal.WithLabelValues(result).Inc()
	if idLength > 0 {
		IDLength.Observe(float64(idLength))
	}
}

// RecordDecode records a decode call.
func RecordDecode(result string) {
	DecodeTotal.WithLabelValues(result).Inc()
}

// RecordCacheHit records a cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordDBQuery records a database query duration.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordResourceCreated records a resource registration.
func RecordResourceCreated() {
	ResourcesCreatedTotal.Inc()
}
