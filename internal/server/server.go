package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/observability"
	"github.com/harulabs/mintgate/internal/server/handlers"
	servermw "github.com/harulabs/mintgate/internal/server/middleware"
)

// Options carries the dependencies the router is built from.
type Options struct {
	Config config.ServerConfig
	API    *handlers.API
	Health *handlers.HealthManager

	// Metrics mounts /metrics; Pprof mounts chi's profiler under /debug.
	Metrics bool
	Pprof   bool
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	cfg    config.ServerConfig
	api    *handlers.API
	health *handlers.HealthManager
	opts   Options
}

// New creates a new HTTP server instance
func New(opts Options) *Server {
	r := chi.NewRouter()

	// Client-supplied forwarding headers would let one peer rotate its
	// rate-limit key, so RemoteAddr stays authoritative unless configured.
	if opts.Config.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(servermw.RequestID)
	r.Use(servermw.RequestMetrics)
	r.Use(servermw.Recovery)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	api := opts.API
	if api == nil {
		api = &handlers.API{}
	}
	health := opts.Health
	if health == nil {
		health = handlers.NewHealthManager(handlers.AppVersion)
	}

	s := &Server{
		router: r,
		cfg:    opts.Config,
		api:    api,
		health: health,
		opts:   opts,
	}

	handlers.SetHTTPErrorResponder(HandleError)
	s.registerRoutes()

	return s
}

// Addr is the host:port the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Start starts the HTTP server and blocks until it stops. A graceful
// shutdown returns nil.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadTimeout:       orDefault(s.cfg.ReadTimeout, 30*time.Second),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      orDefault(s.cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       orDefault(s.cfg.IdleTimeout, 120*time.Second),
	}

	observability.ServerLogger.Info("Starting HTTP server",
		zap.String("host", s.cfg.Host),
		zap.Int("port", s.cfg.Port),
		zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	observability.ServerLogger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying router for testing and instrumentation
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured port
func (s *Server) Port() int {
	return s.cfg.Port
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
