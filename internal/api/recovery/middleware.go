// Package recovery converts handler panics into JSON 500 responses so one
// bad request cannot take the gateway down.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/tgshelf/tgshelf/internal/api/respond"
)

// Middleware intercepts panics from downstream handlers, logs them with the
// request id, and answers HTTP 500.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("remote", r.RemoteAddr).
					Str("request_id", r.Header.Get("X-Request-Id")).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				respond.WriteInternalError(w, "an unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
