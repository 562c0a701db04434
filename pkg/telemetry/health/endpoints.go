package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler returns an http.Handler for the /health endpoint.
func (c *Checker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := c.CheckLiveness(r.Context())
		writeStatus(w, http.StatusOK, status)
	})
}

// ReadinessHandler returns an http.Handler for the /ready endpoint.
// It responds 200 when ready and 503 when any component check fails.
func (c *Checker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if status.Status == "degraded" {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, code, status)
	})
}

// writeStatus writes a JSON health status response.
func writeStatus(w http.ResponseWriter, code int, status Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
