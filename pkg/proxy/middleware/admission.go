package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"mercator-hq/hermes/pkg/limits"
)

// AdmissionMiddleware caps the number of simultaneously active upgrade
// sessions. Plain HTTP requests are not counted; only upgrade requests
// consume a slot, held until the handler (and any relay session it spawns)
// returns. A saturated gateway rejects new upgrades with 503.
func AdmissionMiddleware(limiter *limits.SessionLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !websocket.IsWebSocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Acquire() {
				slog.WarnContext(r.Context(), "session limit reached, rejecting upgrade",
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
					"limit", limiter.Limit(),
				)
				http.Error(w, "too many concurrent sessions", http.StatusServiceUnavailable)
				return
			}
			defer limiter.Release()

			next.ServeHTTP(w, r)
		})
	}
}
