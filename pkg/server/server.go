// Package server wires the CMS core, the embedded storage engine, and the
// HTTP API together into a runnable service.
package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-cms/pkg/api"
	"github.com/adfharrison1/go-cms/pkg/core"
	"github.com/adfharrison1/go-cms/pkg/schema"
	"github.com/adfharrison1/go-cms/pkg/storage"
)

// RouteRegistrar registers extra routes on the server's router. This is the
// explicit counterpart to config plugins: plugins transform configuration,
// registrars add HTTP surface.
type RouteRegistrar func(router *mux.Router)

// Server holds references to the router, the CMS core, and the storage engine.
type Server struct {
	router     *mux.Router
	cms        *core.CMS
	engine     *storage.Engine
	registrars []RouteRegistrar
}

// ServerOption configures a Server at construction time.
type ServerOption func(*Server)

// WithRoutes adds a route registrar that runs after the CMS routes are set up.
func WithRoutes(registrar RouteRegistrar) ServerOption {
	return func(s *Server) {
		s.registrars = append(s.registrars, registrar)
	}
}

// NewServer builds the CMS instance from the configuration, wires the
// embedded storage engine with schema-derived collection options, and sets
// up all HTTP routes.
func NewServer(cfg schema.Config, storageOptions []storage.Option, coreOptions []core.Option, serverOptions ...ServerOption) (*Server, error) {
	// Plugins run inside core.New as well, but collection-derived storage
	// options must see the final collection list.
	cfg = schema.ApplyPlugins(cfg)

	storageOptions = append(storageOptions, collectionOptions(cfg)...)
	engine := storage.NewEngine(storageOptions...)

	cms, err := core.New(cfg, engine, coreOptions...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{
		router: mux.NewRouter(),
		cms:    cms,
		engine: engine,
	}

	for _, option := range serverOptions {
		option(s)
	}

	handler := api.NewHandler(cms)
	handler.RegisterRoutes(s.router)
	for _, registrar := range s.registrars {
		registrar(s.router)
	}

	s.router.Use(requestLoggerMiddleware)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return s, nil
}

// collectionOptions derives per-collection storage options (timestamp
// stamping, unique fields) from the collection definitions.
func collectionOptions(cfg schema.Config) []storage.Option {
	var options []storage.Option
	for _, coll := range cfg.Collections {
		opts := storage.CollectionOptions{Timestamps: coll.Timestamps}
		for _, field := range coll.Fields {
			if field.Unique {
				opts.UniqueFields = append(opts.UniqueFields, field.Name)
			}
		}
		options = append(options, storage.WithCollection(coll.Name, opts))
	}
	return options
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		log.Printf("INFO: Request %s %s took %s", r.Method, r.URL.Path, elapsed)
	})
}

// CMS exposes the orchestrator instance, e.g. for programmatic seeding.
func (s *Server) CMS() *core.CMS {
	return s.cms
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

// InitDB loads a snapshot from file, if one exists.
func (s *Server) InitDB(filename string) {
	if err := s.engine.LoadFromFile(filename); err != nil {
		log.Printf("ERROR: Could not load snapshot from file %s: %v", filename, err)
	} else {
		log.Printf("INFO: Loaded snapshot from file %s successfully", filename)
	}
}

// SaveDB saves the current state to a snapshot file.
func (s *Server) SaveDB(filename string) {
	if err := s.engine.SaveToFile(filename); err != nil {
		log.Printf("ERROR: Could not save snapshot to file %s: %v", filename, err)
	} else {
		log.Printf("INFO: Saved snapshot to file %s successfully", filename)
	}
}

// StartBackgroundWorkers starts the storage engine's background workers.
func (s *Server) StartBackgroundWorkers() {
	s.engine.StartBackgroundWorkers()
}

// StopBackgroundWorkers stops the storage engine's background workers.
func (s *Server) StopBackgroundWorkers() {
	s.engine.StopBackgroundWorkers()
}
