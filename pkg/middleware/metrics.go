package middleware

import (
	"net/http"
	"strconv"
	"time"

	"marketplace-booking/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics records request count and duration per route pattern, so path
// parameters do not explode the label cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			pattern := r.URL.Path
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil && routeCtx.RoutePattern() != "" {
				pattern = routeCtx.RoutePattern()
			}

			status := strconv.Itoa(rw.statusCode)
			metrics.RequestCounter.WithLabelValues(r.Method, pattern, status).Inc()
			metrics.RequestDurationHistogram.WithLabelValues(r.Method, pattern, status).Observe(time.Since(start).Seconds())
		})
	}
}
