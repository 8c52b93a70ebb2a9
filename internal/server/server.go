package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/staffsearch/staffsearch/internal/config"
	"github.com/staffsearch/staffsearch/internal/core"
	apperrors "github.com/staffsearch/staffsearch/internal/errors"
	"github.com/staffsearch/staffsearch/internal/observability"
	"github.com/staffsearch/staffsearch/internal/ratelimit"
	"github.com/staffsearch/staffsearch/internal/server/handlers"
	servermw "github.com/staffsearch/staffsearch/internal/server/middleware"
)

// Deps are the collaborators the HTTP server routes to.
type Deps struct {
	// Employees backs the search endpoint. Required.
	Employees core.EmployeeSearcher

	// Limiter guards every non-bypass route. Nil disables rate limiting.
	Limiter *ratelimit.Limiter

	// BypassPaths overrides middleware.DefaultBypassPaths when non-nil.
	BypassPaths []string

	// Health serves the /health family. Nil installs a manager with no checkers.
	Health *handlers.HealthManager

	// SearchTimeout bounds each store query; zero uses the handler default.
	SearchTimeout time.Duration
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	mu       sync.Mutex
	server   *http.Server
	cfg      config.ServerConfig
	deps     Deps
	listener net.Listener
}

// New builds the router and middleware chain. It does not listen.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Health == nil {
		deps.Health = handlers.NewHealthManager(handlers.AppVersion)
		deps.Health.MarkStarted()
	}

	r := chi.NewRouter()

	// RemoteAddr must stay the transport peer: client identity resolution reads
	// X-Forwarded-For and X-Real-IP itself, so chi's RealIP is not installed.
	r.Use(servermw.RequestID)
	r.Use(servermw.RequestMetrics)
	if deps.Limiter != nil {
		r.Use(servermw.RateLimit(deps.Limiter, deps.BypassPaths))
	}
	r.Use(servermw.Recovery)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		HandleError(w, req, apperrors.NewNotFoundError("The requested resource was not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		HandleError(w, req, apperrors.NewMethodNotAllowedError("The requested method is not allowed for this resource"))
	})

	s := &Server{
		router: r,
		cfg:    cfg,
		deps:   deps,
	}

	handlers.SetHTTPErrorResponder(HandleError)
	s.registerRoutes()

	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
}

// Listen binds the configured address. Port 0 picks a free port, readable via Port.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr(), err)
	}
	s.listener = ln
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		s.cfg.Port = tcp.Port
	}
	return nil
}

// Start serves until Shutdown. It binds first when Listen was not called.
// Returns nil after a graceful shutdown.
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Handler:           s.router,
		ReadTimeout:       durationOr(s.cfg.ReadTimeout, 30*time.Second),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      durationOr(s.cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       durationOr(s.cfg.IdleTimeout, 120*time.Second),
	}
	s.mu.Lock()
	s.server = httpServer
	s.mu.Unlock()

	if logger := observability.ServerLogger; logger != nil {
		logger.Info("Starting HTTP server",
			zap.String("host", s.cfg.Host),
			zap.Int("port", s.cfg.Port),
			zap.String("addr", s.listener.Addr().String()),
			zap.Bool("rate_limit", s.deps.Limiter != nil))
	}

	if err := httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	httpServer := s.server
	s.mu.Unlock()
	if httpServer == nil {
		return nil
	}
	if logger := observability.ServerLogger; logger != nil {
		logger.Info("Shutting down HTTP server")
	}
	return httpServer.Shutdown(ctx)
}

// Handler exposes the underlying router for testing and instrumentation
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the bound port once Listen ran, else the configured one.
func (s *Server) Port() int {
	return s.cfg.Port
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
