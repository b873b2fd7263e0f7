// Package server exposes the layout engine and the publish pipeline
// over HTTP.
//
// Routes:
//
//	GET    /healthz                  liveness probe
//	POST   /api/v1/layout            compute a grid plan for a widget sequence
//	POST   /api/v1/dashboards        run the generate → publish pipeline
//	GET    /api/v1/dashboards        list cataloged dashboards
//	GET    /api/v1/dashboards/{id}   fetch one cataloged dashboard
//	DELETE /api/v1/dashboards/{id}   remove a catalog entry
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dashwright/dashwright/pkg/catalog"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/pipeline"
)

// Options configures the HTTP server.
type Options struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr string

	// Runner executes pipeline requests. Required.
	Runner *pipeline.Runner

	// Catalog records published dashboards. Optional; without it the
	// dashboard listing routes return 404.
	Catalog catalog.Store

	// Logger defaults to the package default logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Runner == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "server needs a pipeline runner")
	}
	if o.Addr == "" {
		o.Addr = ":8080"
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Server is the dashwright HTTP API.
type Server struct {
	runner  *pipeline.Runner
	catalog catalog.Store
	logger  *log.Logger
	http    *http.Server
}

// New creates a server with its routes mounted.
func New(opts Options) (*Server, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	s := &Server{
		runner:  opts.Runner,
		catalog: opts.Catalog,
		logger:  opts.Logger,
	}
	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // pipeline runs include model calls
	}
	return s, nil
}

// Router builds the chi route tree. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/dashboards", s.handleCreateDashboard)
		r.Get("/dashboards", s.handleListDashboards)
		r.Get("/dashboards/{id}", s.handleGetDashboard)
		r.Delete("/dashboards/{id}", s.handleDeleteDashboard)
	})

	return r
}

// ListenAndServe blocks serving requests until Shutdown or a listener
// error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
