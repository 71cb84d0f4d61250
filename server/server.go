package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Cronos47/meme-tanker/logging"
)

// Config configures the HTTP server.
type Config struct {
	// Host to bind to; empty means all interfaces.
	Host string
	// Port to listen on.
	Port int
	// ReadTimeout for requests (default 30s).
	ReadTimeout time.Duration
	// WriteTimeout for responses. Karaoke renders can take a while, so
	// the default is generous (5m).
	WriteTimeout time.Duration
	// IdleTimeout for keep-alive connections (default 120s).
	IdleTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown (default 30s).
	ShutdownTimeout time.Duration
}

// applyDefaults fills zero-value durations.
func (c *Config) applyDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5 * time.Minute
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
}

// Server wraps http.Server with logging and graceful shutdown.
type Server struct {
	httpServer *http.Server
	config     Config
	log        *logging.Logger
}

// New creates a Server fronting the given handler.
func New(cfg Config, handler http.Handler, log *logging.Logger) *Server {
	cfg.applyDefaults()
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		config: cfg,
		log:    log.Named("server"),
	}
}

// Start listens and serves until the server is shut down. It blocks;
// http.ErrServerClosed is swallowed as the normal shutdown signal.
func (s *Server) Start() error {
	s.log.Info("listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown failed: %w", err)
	}
	return nil
}
