package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jadwalin/realtime-gateway/internal/pkg/logger"
	"github.com/labstack/echo/v4"
)

// GracefulServer runs the public listener and the loopback control
// listener together and shuts both down on SIGINT/SIGTERM. The two
// listeners stay separate processes-within-a-process: a slow control
// request never competes with the public accept loop for a port.
type GracefulServer struct {
	public          *echo.Echo
	control         *echo.Echo
	logger          *logger.ZapLogger
	publicAddr      string
	controlAddr     string
	shutdownTimeout time.Duration
}

// NewGracefulServer creates a server pair with graceful shutdown.
// The control listener binds to loopback only.
func NewGracefulServer(public, control *echo.Echo, zapLogger *logger.ZapLogger, host string, port, controlPort, shutdownTimeoutSecs int) *GracefulServer {
	return &GracefulServer{
		public:          public,
		control:         control,
		logger:          zapLogger,
		publicAddr:      fmt.Sprintf("%s:%d", host, port),
		controlAddr:     fmt.Sprintf("127.0.0.1:%d", controlPort),
		shutdownTimeout: time.Duration(shutdownTimeoutSecs) * time.Second,
	}
}

// Start starts both listeners and blocks until a shutdown signal.
func (s *GracefulServer) Start() error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("Starting public server", logger.String("address", s.publicAddr))
		if err := s.public.Start(s.publicAddr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("public server: %w", err)
		}
	}()

	go func() {
		s.logger.Info("Starting control server", logger.String("address", s.controlAddr))
		if err := s.control.Start(s.controlAddr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("control server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		// A listener that fails to bind is an unrecoverable startup failure.
		s.logger.Error("Listener failed", logger.Err(err))
		_ = s.Shutdown()
		return err
	}

	return s.Shutdown()
}

// Shutdown gracefully shuts down both listeners.
func (s *GracefulServer) Shutdown() error {
	s.logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	var firstErr error
	for _, e := range []*echo.Echo{s.control, s.public} {
		if err := e.Shutdown(ctx); err != nil {
			s.logger.Error("Server forced to shutdown", logger.Err(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr == nil {
		s.logger.Info("Server shutdown completed")
	}
	return firstErr
}

// ShutdownManager provides a way to register cleanup functions that run
// after the listeners stop.
type ShutdownManager struct {
	logger    *logger.ZapLogger
	functions []func(context.Context) error
}

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager(zapLogger *logger.ZapLogger) *ShutdownManager {
	return &ShutdownManager{
		logger:    zapLogger,
		functions: make([]func(context.Context) error, 0),
	}
}

// Register adds a cleanup function to be called during shutdown
func (sm *ShutdownManager) Register(fn func(context.Context) error) {
	sm.functions = append(sm.functions, fn)
}

// Shutdown executes all registered cleanup functions
func (sm *ShutdownManager) Shutdown(ctx context.Context) error {
	sm.logger.Info("Starting graceful shutdown of components", logger.Int("components", len(sm.functions)))

	for i, fn := range sm.functions {
		if err := fn(ctx); err != nil {
			sm.logger.Error("Error during component shutdown",
				logger.Int("component", i),
				logger.Err(err))
			// Continue with other components even if one fails
		}
	}

	sm.logger.Info("All components shutdown completed")
	return nil
}
