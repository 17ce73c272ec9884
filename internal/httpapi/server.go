package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Aleph-Alpha/superheroes/pkg/logger"
)

// Server runs an http.Handler on a TCP address until Shutdown.
type Server struct {
	http   *http.Server
	logger logger.Logger
	done   chan struct{}
}

func NewServer(address string, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: log,
		done:   make(chan struct{}),
	}
}

// Start binds the address and serves in the background. Bind failures are
// returned; later serve failures are logged.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return err
	}

	s.logger.Info("HTTP server listening", nil, map[string]interface{}{"address": ln.Addr().String()})

	go func() {
		defer close(s.done)
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped unexpectedly", err, nil)
		}
	}()
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", nil, nil)
	err := s.http.Shutdown(ctx)

	select {
	case <-s.done:
	case <-ctx.Done():
	}
	return err
}
