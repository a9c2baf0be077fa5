package middleware

import (
	"net/http"
	"runtime/debug"

	"skyfare/pkg/logger"
)

// Recovery converts handler panics into 500 responses. It sits innermost on
// the health router and outermost on the API stack so a panic anywhere in a
// booking or search handler never tears down the server.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic recovered",
						"request_id", requestIDFrom(r),
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// requestIDFrom returns the request id placed in the context by
// RequestLogging, or "" when recovery runs outside that stack.
func requestIDFrom(r *http.Request) string {
	if id, ok := r.Context().Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
