// Package server wires the gateway, rate limiter, and telemetry into one
// HTTP server and owns their lifecycles.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"tavola-hq/menugate/pkg/config"
	"tavola-hq/menugate/pkg/gateway"
	"tavola-hq/menugate/pkg/limits"
	"tavola-hq/menugate/pkg/limits/ratelimit"
	"tavola-hq/menugate/pkg/limits/storage"
	"tavola-hq/menugate/pkg/proxy/handlers"
	"tavola-hq/menugate/pkg/proxy/middleware"
	"tavola-hq/menugate/pkg/telemetry/metrics"
)

// Server is the menu-generation HTTP server.
type Server struct {
	config     *config.Config
	configPath string

	gateway   *gateway.Gateway
	limiter   *ratelimit.FixedWindow
	sweeper   *limits.Sweeper
	collector *metrics.Collector
	cors      *middleware.CORS
	watcher   *config.Watcher

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer builds the server and everything it owns: the metrics
// collector, the rate limiter with its snapshot backend, the cleanup
// sweeper, the provider gateway, and (when configPath is non-empty) a
// config watcher that hot-reloads the CORS allow-list.
//
// All dependencies are constructed here and injected downward; nothing
// in the request path reads global state.
func NewServer(cfg *config.Config, configPath string) (*Server, error) {
	collector := metrics.NewCollector(cfg.Telemetry.Metrics.Enabled)

	backend, err := newSnapshotBackend(cfg.Limits.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot backend: %w", err)
	}

	limiter, err := ratelimit.NewFixedWindow(cfg.Limits.Window, cfg.Limits.MaxRequests, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate limiter: %w", err)
	}

	gw, err := gateway.New(cfg, collector)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway: %w", err)
	}

	s := &Server{
		config:       cfg,
		configPath:   configPath,
		gateway:      gw,
		limiter:      limiter,
		sweeper:      limits.NewSweeper(limiter, cfg.Limits.SweepSchedule),
		collector:    collector,
		cors:         middleware.NewCORS(cfg.Server.CORS),
		shutdownChan: make(chan struct{}),
	}

	if configPath != "" {
		s.watcher = config.NewWatcher(configPath, s.onConfigReload)
	}

	return s, nil
}

// newSnapshotBackend opens the configured rate-limit persistence backend.
func newSnapshotBackend(cfg config.SnapshotConfig) (storage.Backend, error) {
	switch cfg.Backend {
	case "sqlite":
		return storage.NewSQLiteBackend(cfg.Path)
	default:
		return storage.NewMemoryBackend(), nil
	}
}

// onConfigReload applies the reloadable subset of the config. Only the
// CORS allow-list is hot-swappable; listen address, timeouts, and limiter
// sizing need a restart.
func (s *Server) onConfigReload(cfg *config.Config) {
	s.cors.Update(cfg.Server.CORS)
	slog.Info("applied reloaded configuration", "section", "cors")
}

// Start starts the sweeper, the config watcher, and the HTTP server, then
// blocks until shutdown is triggered by signal, context cancellation, or
// Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sweeper: %w", err)
	}

	if s.watcher != nil {
		if err := s.watcher.Start(ctx); err != nil {
			slog.Warn("config watcher failed to start, hot reload disabled", "error", err)
			s.watcher = nil
		}
	}

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", s.config.Server.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops the HTTP server gracefully, then the watcher, sweeper,
// gateway, and limiter. Safe to call more than once.
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

		if s.watcher != nil {
			s.watcher.Stop()
		}
		s.sweeper.Stop()

		if err := s.gateway.Close(); err != nil {
			slog.Error("error closing gateway", "error", err)
		}
		if err := s.limiter.Close(); err != nil {
			slog.Error("error closing rate limiter", "error", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler builds the routed handler with the full middleware chain.
// Exposed for tests, which serve it through httptest instead of a real
// listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Only the generation endpoint consumes rate-limit budget; health and
	// metrics endpoints must stay reachable for probes and dashboards.
	rateLimited := middleware.RateLimit(s.limiter, s.collector)
	mux.Handle("/api/generate-menu", rateLimited(handlers.NewGenerateHandler(s.gateway)))

	mux.HandleFunc("/api/health", handlers.Health)
	mux.Handle("/api/health/providers", handlers.NewProvidersHealthHandler(s.gateway))

	limitsHandler := handlers.NewLimitsHandler(s.limiter)
	mux.Handle("/api/limits/metrics", limitsHandler)
	mux.Handle("/api/limits/stats", limitsHandler)

	if s.config.Telemetry.Metrics.Enabled {
		path := s.config.Telemetry.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, s.collector.Handler())
	}

	var handler http.Handler = middleware.Timeout(s.config.Server.WriteTimeout)(mux)
	handler = s.cors.Wrap(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	return handler
}
