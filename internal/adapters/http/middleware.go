package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskrelay/taskrelay/internal/observability"
)

// withRequestLogging propagates chi's request id into the observability
// context and logs every request at completion.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := r.Context()
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			ctx = observability.WithRequestID(ctx, reqID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))

		observability.LoggerFromContext(ctx).Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}

// withCORS adds basic CORS headers so the browser front-end can call us.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
