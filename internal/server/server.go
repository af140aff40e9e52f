// Package server exposes liveness, readiness and Prometheus metrics over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FetchTracker reports when the watch loop last read a price.
type FetchTracker interface {
	LastFetch() time.Time
}

// Server is the optional health/metrics HTTP server.
type Server struct {
	echo *echo.Echo
	http *http.Server
	log  *slog.Logger
}

// New builds a server whose /readyz reports ready while tracker has fetched
// a price within staleAfter.
func New(tracker FetchTracker, staleAfter time.Duration, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(Recovery(log))
	e.Use(Metrics())

	h := NewHealthHandler(tracker, staleAfter)
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{
		echo: e,
		http: &http.Server{
			Handler:           e,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		log: log,
	}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info("metrics server listening", "addr", l.Addr().String())
	if err := s.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving metrics: %w", err)
	}
	return nil
}

// Start listens on addr and serves in a background goroutine. Serve errors
// after a successful listen are logged.
func (s *Server) Start(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	go func() {
		if err := s.Serve(l); err != nil {
			s.log.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down metrics server: %w", err)
	}
	return nil
}
