package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"
)

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Host            string
	Port            int
	PortAttempts    int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns sensible defaults for server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "",
		Port:            3001,
		PortAttempts:    10,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    0, // No write timeout; event streams stay open
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server wraps the HTTP server with graceful shutdown support
type Server struct {
	server *http.Server
	logger *slog.Logger
	config ServerConfig

	addr string
}

// NewServer creates a new API server
func NewServer(handler http.Handler, config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		},
		logger: logger,
		config: config,
	}
}

// Start begins listening for HTTP requests. If the configured port is
// taken, it walks up through the next ports before giving up.
func (s *Server) Start() error {
	listener, err := s.listen()
	if err != nil {
		return err
	}

	s.logger.Info("starting HTTP server", slog.String("addr", s.addr))

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func (s *Server) listen() (net.Listener, error) {
	attempts := s.config.PortAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		port := s.config.Port + i
		addr := fmt.Sprintf("%s:%d", s.config.Host, port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			s.addr = addr
			return listener, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("listen on %s: %w", addr, err)
		}
		s.logger.Warn("port in use, trying next",
			slog.Int("port", port),
			slog.Int("next", port+1))
	}

	return nil, fmt.Errorf("no free port in range %d-%d",
		s.config.Port, s.config.Port+attempts-1)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the address the server is listening on, available after
// Start has bound a port
func (s *Server) Addr() string {
	return s.addr
}
