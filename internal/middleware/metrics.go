package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"go-account-service/internal/metrics"
)

// Metrics records request counts and latency against the chi route pattern so
// /users/{id} stays one label value instead of one per id.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			collector.RecordRequest(r.Method, route, wrapped.status, time.Since(started))
		})
	}
}
