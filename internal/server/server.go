// Package server runs the loopback HTTP receiver that catches the browser
// returning from the OAuth provider.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/brizzai/unhinged/internal/auth"
	"github.com/brizzai/unhinged/internal/config"
	"github.com/brizzai/unhinged/internal/logger"
	"github.com/brizzai/unhinged/internal/server/handler"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
	// readHeaderTimeout bounds slow clients on the loopback port
	readHeaderTimeout = 10 * time.Second
)

// Server represents the loopback receiver instance
type Server struct {
	config  *config.OAuthConfig
	auth    *auth.Service
	handler *handler.Handler
}

// NewServer creates a receiver for the configured redirect address
func NewServer(cfg *config.Config, authService *auth.Service) *Server {
	return &Server{
		config:  &cfg.OAuth,
		auth:    authService,
		handler: handler.NewHandler(authService),
	}
}

// Addr is the host:port the receiver binds to
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.RedirectHost, s.config.RedirectPort)
}

// Listen binds the receiver address so bind errors surface before the user
// is sent to the browser
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.Addr(), err)
	}
	return ln, nil
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.handler.CreateHTTPHandler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Channel for server errors
	errChan := make(chan error, 1)

	go func() {
		logger.Info("Starting loopback receiver", zap.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down loopback receiver", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

// Receive serves until the browser delivers a fragment or ctx ends
func (s *Server) Receive(ctx context.Context, ln net.Listener) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(ctx, ln)
	}()

	select {
	case fragment := <-s.auth.Fragments():
		cancel()
		<-serveErr
		return fragment, nil
	case err := <-serveErr:
		if err == nil {
			err = ctx.Err()
		}
		return "", err
	case <-ctx.Done():
		<-serveErr
		return "", ctx.Err()
	}
}

// Module provides the loopback receiver
var Module = fx.Module("server",
	fx.Provide(
		NewServer,
	),
)
