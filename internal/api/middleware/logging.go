package middleware

import (
	"net/http"
	"time"

	"github.com/care4u/backend/internal/infrastructure/observability"
)

// LoggingMiddleware logs one line per request at a level that follows the status
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)

		logger := observability.LoggerFromContext(r.Context())
		event := logger.Info()
		switch {
		case sw.status >= http.StatusInternalServerError:
			event = logger.Error()
		case sw.status >= http.StatusBadRequest:
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routeOf(r)).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// statusWriter remembers the status code and keeps Flush working for SSE
type statusWriter struct {
	http.ResponseWriter
	status int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Flush() {
	if flusher, ok := sw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// routeOf returns the mux pattern that served r. ServeMux records it on the
// request it was handed, so this is only meaningful after the handler ran.
func routeOf(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}
