/*
PURPOSE:
  HTTP middleware for the API server: panic recovery, request logging,
  and CORS.

REQUIREMENTS:
  User-specified:
  - A handler panic must not take down the session.

  Implementation-discovered:
  - The browser dev server runs on a different origin, so CORS headers
    (including preflight) are required.

ARCHITECTURE INTEGRATION:
  - Applied by: internal/api/server.go routes().

ERROR HANDLING:
  - Recovered panics become 500 responses and an error log line.

IMPLEMENTATION RULES:
  - Middleware wraps in reverse order; recovery is outermost.

USAGE:
  handler = recoveryMiddleware(loggingMiddleware(h))

RELATED FILES:
  - internal/api/server.go

MAINTENANCE:
  - None.
*/

package api

import (
	"net/http"
	"time"

	"github.com/sidereal-labs/powertrace/internal/output"
)

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				output.Logger.Error("handler panic", "path", r.URL.Path, "panic", rec)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		output.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowed[origin] || allowed["*"]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
