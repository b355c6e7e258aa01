// Package server implements the Flowline HTTP API.
//
// The API exposes stateless layout resolution plus CRUD for stored
// diagrams:
//
//	POST   /api/resolve                 resolve a model in the request body
//	GET    /api/diagrams                list stored diagrams
//	POST   /api/diagrams                store a new diagram
//	GET    /api/diagrams/{id}           fetch one diagram
//	DELETE /api/diagrams/{id}           delete one diagram
//	POST   /api/diagrams/{id}/resolve   resolve and persist the stored model
//	GET    /healthz                     liveness probe
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/flowline-dev/flowline/pkg/pipeline"
	"github.com/flowline-dev/flowline/pkg/store"
)

// Server serves the Flowline HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server around a pipeline runner and a diagram store.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  st,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)

		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.handleListDiagrams)
			r.Post("/", s.handleCreateDiagram)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDiagram)
				r.Delete("/", s.handleDeleteDiagram)
				r.Post("/resolve", s.handleResolveDiagram)
			})
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving API", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
