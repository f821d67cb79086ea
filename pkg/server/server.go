package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/analysis/query"
	"mercator-hq/jobscan/pkg/analysis/recorder"
	"mercator-hq/jobscan/pkg/api/handlers"
	"mercator-hq/jobscan/pkg/api/middleware"
	"mercator-hq/jobscan/pkg/config"
	"mercator-hq/jobscan/pkg/rules"
	"mercator-hq/jobscan/pkg/telemetry/health"
	"mercator-hq/jobscan/pkg/telemetry/metrics"
	"mercator-hq/jobscan/pkg/telemetry/tracing"
)

// Deps are the components the server routes to. Storage is required; nil
// optional components fall back to defaults or are disabled.
type Deps struct {
	Storage  analysis.Storage
	Recorder *recorder.Recorder
	Engine   *rules.Engine
	Checker  *health.Checker
	Metrics  *metrics.Collector
	Tracer   *tracing.Tracer
	Version  health.VersionInfo
}

// Server is the jobscan HTTP server.
type Server struct {
	config       *config.Config
	deps         Deps
	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	logger       *slog.Logger
}

// New creates a server. It does not listen until Start.
func New(cfg *config.Config, deps Deps) *Server {
	if deps.Engine == nil {
		deps.Engine = rules.Default()
	}
	if deps.Checker == nil {
		deps.Checker = health.New(cfg.Telemetry.Health.CheckTimeout)
		if deps.Storage != nil {
			deps.Checker.RegisterCheck(health.CheckDatabase, deps.Storage.Ping)
		}
	}
	if deps.Recorder == nil {
		deps.Recorder = recorder.New(deps.Storage, &cfg.Recorder,
			recorder.WithMetrics(deps.Metrics),
			recorder.WithTracer(deps.Tracer),
		)
	}

	return &Server{
		config:       cfg,
		deps:         deps,
		shutdownChan: make(chan struct{}),
		logger:       slog.Default().With("component", "server"),
	}
}

// Start listens on the configured address and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	cfg := &s.config.Server
	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting jobscan server",
			"address", listener.Addr().String(),
			"storage", s.config.Storage.Backend,
			"recording", s.deps.Recorder.Enabled(),
		)

		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		return s.shutdown(context.Background())
	}
}

// Shutdown asks a running Start to stop and waits for the drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	running := s.isRunning
	s.mu.RUnlock()
	if !running {
		return nil
	}

	s.requestShutdown()
	return s.shutdown(ctx)
}

func (s *Server) requestShutdown() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// shutdown drains the HTTP server once; later calls return the first result.
func (s *Server) shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		timeout := s.config.Server.ShutdownTimeout
		s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("jobscan server stopped")
	})

	return shutdownErr
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	cfg := s.config
	d := s.deps

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(d.Checker))
	mux.Handle("/analyze-job", handlers.NewAnalyzeHandler(d.Engine, d.Recorder, cfg.Server.MaxBodyBytes,
		handlers.WithMetrics(d.Metrics),
		handlers.WithTracer(d.Tracer),
	))
	mux.Handle("/analyses", handlers.NewAnalysesHandler(d.Storage, query.Limits{
		DefaultPerPage: cfg.Query.DefaultPerPage,
		MaxPerPage:     cfg.Query.MaxPerPage,
	}, cfg.Query.Timeout))

	hc := cfg.Telemetry.Health
	mux.Handle("GET "+hc.LivenessPath, d.Checker.LivenessHandler())
	mux.Handle("GET "+hc.ReadinessPath, d.Checker.ReadinessHandler())
	mux.Handle("GET "+hc.VersionPath, health.VersionHandler(d.Version))

	if d.Metrics.Enabled() {
		mux.Handle("GET "+cfg.Telemetry.Metrics.Path, d.Metrics.Handler())
	}

	mux.HandleFunc("/", handlers.NotFound)

	return middleware.Chain(mux,
		middleware.Recovery,
		middleware.RequestID,
		middleware.Tracing(d.Tracer),
		middleware.Logging,
		middleware.Metrics(d.Metrics),
		middleware.CORS(&cfg.Server.CORS),
		middleware.RateLimit(&cfg.Server.RateLimit),
		middleware.Timeout(cfg.Server.RequestTimeout),
	)
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
