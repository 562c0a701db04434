package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/limits"
	"mercator-hq/hermes/pkg/proxy/middleware"
	securitytls "mercator-hq/hermes/pkg/security/tls"
	"mercator-hq/hermes/pkg/telemetry/health"
	"mercator-hq/hermes/pkg/telemetry/metrics"
)

// Server is the gateway HTTP server. It owns the listener and dispatches
// each request either to the upgrade orchestrator (WebSocket upgrades) or
// the plain HTTP passthrough, with health and metrics endpoints on the side.
type Server struct {
	config      *config.Config
	gateway     http.Handler
	passthrough http.Handler
	checker     *health.Checker
	collector   *metrics.Collector
	limiter     *limits.SessionLimiter

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates the gateway server. gateway handles upgrade requests,
// passthrough handles everything else.
func NewServer(cfg *config.Config, gateway, passthrough http.Handler, checker *health.Checker, collector *metrics.Collector, limiter *limits.SessionLimiter) *Server {
	return &Server{
		config:       cfg,
		gateway:      gateway,
		passthrough:  passthrough,
		checker:      checker,
		collector:    collector,
		limiter:      limiter,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	tlsConfig, err := securitytls.BuildServerConfig(ctx, &s.config.Security.TLS)
	if err != nil {
		return fmt.Errorf("failed to configure TLS: %w", err)
	}
	s.httpServer.TLSConfig = tlsConfig

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server",
			"address", s.config.Server.ListenAddress,
			"tls_enabled", tlsConfig != nil,
			"routes", len(s.config.Gateway.Routes),
		)

		var err error
		if tlsConfig != nil {
			// Certificates live in TLSConfig (static or via the reloader).
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server. In-flight plain requests get
// the configured grace period; relay sessions drive their own teardown.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway server stopped")
	})

	return shutdownErr
}

// setupRoutes builds the handler tree and middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", s.checker.LivenessHandler())
	mux.Handle("/ready", s.checker.ReadinessHandler())

	if s.config.Telemetry.Metrics.Enabled {
		mux.Handle(s.config.Telemetry.Metrics.Path, promhttp.HandlerFor(
			s.collector.Registry(),
			promhttp.HandlerOpts{},
		))
	}

	// Everything else is gateway traffic: upgrade requests go to the
	// orchestrator, plain requests to the passthrough. Admission only
	// counts upgrades, so it wraps the dispatch rather than the mux.
	dispatch := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			s.gateway.ServeHTTP(w, r)
			return
		}
		s.passthrough.ServeHTTP(w, r)
	})
	mux.Handle("/", middleware.AdmissionMiddleware(s.limiter)(dispatch))

	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(s.convertCORSConfig())(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// convertCORSConfig converts config.CORSConfig to middleware.CORSConfig.
func (s *Server) convertCORSConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:          s.config.Server.CORS.Enabled,
		AllowedOrigins:   s.config.Server.CORS.AllowedOrigins,
		AllowedMethods:   s.config.Server.CORS.AllowedMethods,
		AllowedHeaders:   s.config.Server.CORS.AllowedHeaders,
		ExposedHeaders:   s.config.Server.CORS.ExposedHeaders,
		MaxAge:           s.config.Server.CORS.MaxAge,
		AllowCredentials: s.config.Server.CORS.AllowCredentials,
	}
}
