package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"employee-api/internal/platform/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger writes one line per request and feeds the collector when one is
// given.
func Logger(logger zerolog.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			duration := time.Since(start)

			if collector != nil {
				collector.Record(recorder.status, duration)
			}

			event := logger.Info()
			if recorder.status >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", recorder.status).
				Int64("durationMs", duration.Milliseconds()).
				Str("requestId", GetRequestID(r.Context())).
				Msg("request")
		})
	}
}
