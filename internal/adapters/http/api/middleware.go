package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arcadetally/tally/pkg/metrics"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		metrics.RecordHTTPRequest(endpoint, statusClass(wrapped.statusCode))
		metrics.RecordHTTPRequestDuration(endpoint, time.Since(start).Seconds())
	}
}

// statusClass folds a status code into its class label ("2xx", "4xx", ...).
func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
