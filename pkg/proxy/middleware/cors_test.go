package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsRequest(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestCORSMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("adds CORS headers for allowed origin", func(t *testing.T) {
		config := &CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://app.example.com"},
		}
		wrapped := CORSMiddleware(config)(handler)

		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, corsRequest("https://app.example.com"))

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Errorf("Access-Control-Allow-Origin = %q, want origin echoed", got)
		}
	})

	t.Run("blocks disallowed origin", func(t *testing.T) {
		config := &CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://app.example.com"},
		}
		wrapped := CORSMiddleware(config)(handler)

		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, corsRequest("https://evil.example.com"))

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want unset", got)
		}
	})

	t.Run("handles preflight OPTIONS request", func(t *testing.T) {
		config := &CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Authorization"},
			MaxAge:         3600,
		}
		wrapped := CORSMiddleware(config)(handler)

		req := httptest.NewRequest(http.MethodOptions, "/api/status", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
		}
		if w.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("Access-Control-Allow-Methods should be set for preflight")
		}
		if got := w.Header().Get("Access-Control-Max-Age"); got != "3600" {
			t.Errorf("Access-Control-Max-Age = %v, want 3600", got)
		}
	})

	t.Run("skips CORS when disabled", func(t *testing.T) {
		config := &CORSConfig{Enabled: false, AllowedOrigins: []string{"*"}}
		wrapped := CORSMiddleware(config)(handler)

		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, corsRequest("https://app.example.com"))

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want unset when disabled", got)
		}
	})

	t.Run("upgrade requests pass through untouched", func(t *testing.T) {
		config := DefaultCORSConfig()
		reached := false
		wrapped := CORSMiddleware(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if !reached {
			t.Error("upgrade request did not reach the next handler")
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want unset on upgrade", got)
		}
	})
}

func TestDefaultCORSConfig(t *testing.T) {
	config := DefaultCORSConfig()

	if !config.Enabled {
		t.Error("default CORS should be enabled")
	}
	if len(config.AllowedOrigins) == 0 {
		t.Error("default CORS should have allowed origins")
	}
	if config.MaxAge == 0 {
		t.Error("default CORS should have max age set")
	}
}
