// Package server exposes a stored family over a read-only HTTP API.
//
// Every request reads the family from the store, so edits made through the
// CLI show up without a restart. Trees are drawn through the same
// [pipeline.Runner] the CLI uses, which makes repeated views cheap when a
// cache is configured.
//
// # Routes
//
//	GET /healthz
//	GET /api/people?q=...
//	GET /api/people/{id}
//	GET /api/people/{id}/relations
//	GET /api/tree            JSON tree document
//	GET /api/tree.svg        SVG drawing
//	GET /api/tree.dot        Graphviz source
//	GET /api/check           data problems
//
// Tree routes accept focus, ancestors, descendants, selected, and palette
// query parameters.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/pipeline"
	"github.com/matzehuels/familytree/pkg/store"
	"github.com/matzehuels/familytree/pkg/tree"
)

const shutdownTimeout = 5 * time.Second

// Server serves one family store.
type Server struct {
	store    store.Store
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. A nil logger means log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRunner sets the pipeline runner used to draw trees.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) { s.runner = r }
}

// WithDefaults sets the view used when a request leaves a parameter out:
// focus, depths, node budget, box geometry, and palette.
func WithDefaults(o pipeline.Options) Option {
	return func(s *Server) { s.defaults = o }
}

// New creates a server over st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store: st,
		defaults: pipeline.Options{
			AncestorDepth:   tree.DefaultDepth,
			DescendantDepth: tree.DefaultDepth,
			MaxNodes:        tree.DefaultMaxNodes,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(cache.NewNullCache(), nil, s.logger)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/people", s.handlePeople)
		r.Get("/people/{id}", s.handlePerson)
		r.Get("/people/{id}/relations", s.handleRelations)
		r.Get("/tree", s.handleTree(pipeline.FormatJSON))
		r.Get("/tree.svg", s.handleTree(pipeline.FormatSVG))
		r.Get("/tree.dot", s.handleTree(pipeline.FormatDOT))
		r.Get("/check", s.handleCheck)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
