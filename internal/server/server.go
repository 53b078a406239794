// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gourl/sqids/internal/config"
	"github.com/gourl/sqids/internal/handlers"
	"github.com/gourl/sqids/internal/metrics"
	"github.com/gourl/sqids/internal/middleware"
	"github.com/gourl/sqids/internal/services"
	"github.com/gourl/sqids/pkg/logger"
)

// Services are the application services the server exposes. Either may be
// nil, in which case its routes answer 503.
type Services struct {
	Codec     services.CodecService
	Resources services.ResourceService
}

// Server represents the HTTP server.
type Server struct {
	cfg             *config.Config
	log             *logger.Logger
	httpServer      *http.Server
	healthHandler   *handlers.HealthHandler
	codecHandler    *handlers.CodecHandler
	resourceHandler *handlers.ResourceHandler
	listener        net.Listener
	running         bool
	mu              sync.RWMutex
}

// New creates a new Server instance.
func New(cfg *config.Config, log *logger.Logger, svc Services) *Server {
	s := &Server{
		cfg:           cfg,
		log:           log,
		healthHandler: handlers.NewHealthHandler(),
	}
	if svc.Codec != nil {
		s.codecHandler = handlers.NewCodecHandler(svc.Codec)
	}
	if svc.Resources != nil {
		s.resourceHandler = handlers.NewResourceHandler(svc.Resources)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	chain := middleware.New(
		middleware.Metrics(),
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.Recover(log),
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      chain.Then(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// registerRoutes sets up the HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.healthHandler.Health)
	mux.HandleFunc("GET /ready", s.healthHandler.Ready)
	mux.Handle("GET /metrics", metrics.Handler())

	if s.codecHandler != nil {
		mux.HandleFunc("POST /api/v1/encode", s.codecHandler.Encode)
		mux.HandleFunc("GET /api/v1/decode/{id}", s.codecHandler.Decode)
	} else {
		mux.HandleFunc("/api/v1/encode", unavailable("codec"))
		mux.HandleFunc("/api/v1/decode/", unavailable("codec"))
	}

	if s.resourceHandler != nil {
		mux.HandleFunc("POST /api/v1/resources", s.resourceHandler.Create)
		mux.HandleFunc("GET /api/v1/resources/{token}", s.resourceHandler.Get)
		mux.HandleFunc("DELETE /api/v1/resources/{token}", s.resourceHandler.Delete)
	} else {
		mux.HandleFunc("/api/v1/resources", unavailable("resource"))
		mux.HandleFunc("/api/v1/resources/", unavailable("resource"))
	}
}

func unavailable(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, name+" service not configured", http.StatusServiceUnavailable)
	}
}

// Handler returns the server's root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Server.Address())
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.log.Info("server starting", "address", listener.Addr().String())

	err = s.httpServer.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")
	s.healthHandler.SetReady(false)

	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		s.log.Error("shutdown error", "error", err)
		return err
	}

	s.log.Info("server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// HealthHandler returns the health handler so callers can register checks.
func (s *Server) HealthHandler() *handlers.HealthHandler {
	return s.healthHandler
}
