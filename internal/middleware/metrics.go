package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gourl/sqids/internal/metrics"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics returns a middleware that records Prometheus metrics.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			metrics.ActiveConnections.Inc()
			defer metrics.ActiveConnections.Dec()

			next.ServeHTTP(rw, r)

			metrics.RecordRequest(r.Method, normalizePath(r.URL.Path), rw.statusCode, time.Since(start))
		})
	}
}

// normalizePath maps request paths to route templates so ids and tokens do
// not become label values.
func normalizePath(path string) string {
	switch {
	case path == "/health", path == "/ready", path == "/metrics",
		path == "/api/v1/encode", path == "/api/v1/resources":
		return path
	case hasParam(path, "/api/v1/decode/"):
		return "/api/v1/decode/{id}"
	case hasParam(path, "/api/v1/resources/"):
		return "/api/v1/resources/{token}"
	default:
		return "/other"
	}
}

func hasParam(path, prefix string) bool {
	rest, ok := strings.CutPrefix(path, prefix)
	return ok && rest != "" && !strings.Contains(rest, "/")
}
