package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"langworker/internal/catalog"
	"langworker/internal/config"
	"langworker/internal/logging"
	"langworker/internal/registry"
)

// Server serves the language resource API over HTTP. Construct it with New,
// then Start it; the listener shuts down gracefully when the supplied
// context is cancelled.
type Server struct {
	bind     string
	logger   *slog.Logger
	registry *registry.Registry
	resolver *registry.Resolver
	catalog  *catalog.Catalog
	landing  []byte

	listener net.Listener
	server   *http.Server
}

// New wires the route table over the given registry snapshot and catalog.
// The landing document is rendered here, once, because the registry never
// changes while serving.
func New(cfg *config.Config, reg *registry.Registry, cat *catalog.Catalog, logger *slog.Logger) (*Server, error) {
	if cfg == nil || reg == nil || cat == nil {
		return nil, errors.New("server requires config, registry, and catalog")
	}

	landing, err := renderLanding(cfg.Landing.Path, reg)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		bind:     cfg.BindAddress(),
		logger:   logger,
		registry: reg,
		resolver: registry.NewResolver(reg),
		catalog:  cat,
		landing:  landing,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRoot)
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/languages", srv.handleLanguages)
	mux.HandleFunc("/resources", srv.handleNegotiated)
	mux.HandleFunc("/resources/", srv.handleResource)

	srv.server = &http.Server{
		Handler:           srv.withMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start binds the listener and serves until ctx is cancelled. A bind failure
// is returned immediately and leaves no partial listener behind.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("listening",
		logging.String("address", listener.Addr().String()),
		logging.Int("languages", s.registry.Len()))
	return nil
}

// Stop shuts the server down outside of context cancellation.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address, useful when the configured port is 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "server"))
	}
	return logging.NewNop()
}
