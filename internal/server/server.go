// Package server implements the molview HTTP API.
//
// The API exposes the same pipeline as the CLI: layouts and rendered
// artifacts for SMILES strings and reference molecules, plus a small
// collection of saved structures backed by a [storage.Store].
//
// # Routes
//
//	GET    /healthz
//	GET    /metrics
//	GET    /api/v1/version
//	GET    /api/v1/layout?smiles=
//	GET    /api/v1/render?smiles=&format=&type=&angle=&legend=
//	GET    /api/v1/reference
//	GET    /api/v1/reference/{name}
//	POST   /api/v1/structures
//	GET    /api/v1/structures
//	GET    /api/v1/structures/{id}
//	DELETE /api/v1/structures/{id}
//
// Errors are JSON objects carrying the [errors.Code] of the failure.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/molview/pkg/pipeline"
	"github.com/matzehuels/molview/pkg/storage"
)

// Timeouts for the underlying http.Server.
const (
	ReadTimeout     = 15 * time.Second
	WriteTimeout    = 60 * time.Second // GIF and PDF renders can be slow
	IdleTimeout     = 60 * time.Second
	ShutdownTimeout = 10 * time.Second
)

// Config holds the dependencies of a Server.
type Config struct {
	Runner *pipeline.Runner
	Store  storage.Store
	Logger *log.Logger

	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  storage.Store
	logger *log.Logger
	router chi.Router
}

// New builds the router. A nil Runner gets a cacheless one, a nil Store an
// in-memory one, and a nil Logger discards output.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore()
	}

	s := &Server{
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
	s.router = s.routes(cfg.Gatherer)
	return s
}

func (s *Server) routes(gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/version", s.handleVersion)
		api.Get("/layout", s.handleLayout)
		api.Get("/render", s.handleRender)

		api.Route("/reference", func(ref chi.Router) {
			ref.Get("/", s.handleReferenceList)
			ref.Get("/{name}", s.handleReferenceGet)
		})

		api.Route("/structures", func(st chi.Router) {
			st.Post("/", s.handleStructureCreate)
			st.Get("/", s.handleStructureList)
			st.Get("/{id}", s.handleStructureGet)
			st.Delete("/{id}", s.handleStructureDelete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. A clean shutdown returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
