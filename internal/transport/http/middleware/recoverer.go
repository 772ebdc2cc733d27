package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"employee-api/internal/transport/http/api"
)

type writeTracker struct {
	http.ResponseWriter
	wrote bool
}

func (t *writeTracker) WriteHeader(code int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *writeTracker) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}

// Recoverer logs panics and answers 500 unless the handler already started
// the response.
func Recoverer(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracker := &writeTracker{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("requestId", GetRequestID(r.Context())).
					Msg("handler panicked")
				if tracker.wrote {
					return
				}
				api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", GetRequestID(r.Context()))
			}()
			next.ServeHTTP(tracker, r)
		})
	}
}
