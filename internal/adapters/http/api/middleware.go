package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/epochline/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error class for one
// endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next(rec, r)

		ms := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, ms)

		if class, severity, failed := classify(rec.status); failed {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
			metrics.RecordErrorByType(class, severity)
		}
	}
}

// classify names the error class of status. The classes match the codes
// writeFailure emits.
func classify(status int) (class, severity string, failed bool) {
	switch {
	case status < http.StatusBadRequest:
		return "", "", false
	case status == http.StatusBadRequest:
		return "bad_request", "low", true
	case status == http.StatusNotFound:
		return "not_found", "low", true
	case status == http.StatusBadGateway:
		return "rasterizer", "high", true
	case status == http.StatusServiceUnavailable:
		return "unavailable", "high", true
	case status >= http.StatusInternalServerError:
		return "internal", "high", true
	}
	return "client_error", "medium", true
}

// statusRecorder keeps the first status written.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wrote {
		s.status, s.wrote = code, true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wrote = true
	return s.ResponseWriter.Write(b)
}
