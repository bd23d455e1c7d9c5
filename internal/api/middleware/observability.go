package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/care4u/backend/internal/infrastructure/observability"
)

// ObservabilityMiddleware traces each request and records request metrics.
// Spans and metrics are labelled with the matched route pattern, never the
// raw path, so hospital IDs do not explode cardinality.
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), r.Method)
			defer span.End()

			req := r.WithContext(ctx)
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, req)

			route := routeOf(req)
			span.SetName(route)
			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.Int("http.status_code", sw.status),
			)
			if sw.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(sw.status))
			}
			observability.RecordRequestMetric(ctx, metrics, r.Method, route, sw.status, time.Since(start))
		})
	}
}
