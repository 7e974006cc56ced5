// Package server exposes a live treemap over HTTP.
//
// The server owns one tree. Clients read the current tiles, hit-test points
// and issue expand, collapse, move and resize operations; every operation
// re-lays the tree out in the server's frame. All handlers serialize on a
// single mutex, so the tree is never observed mid-mutation.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/store"
	"github.com/guptarut/treemap/pkg/tree"
)

// Defaults for Config.
const (
	DefaultAddr   = "127.0.0.1:8080"
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// Config holds server configuration.
type Config struct {
	Addr     string
	AllowAll bool // allow all CORS origins (dev mode)
	Width    int  // initial layout frame
	Height   int

	// Store backs the /api/snapshots endpoints. Nil disables them.
	Store  store.Store
	Logger *log.Logger
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}

// Server serves one tree.
type Server struct {
	cfg    Config
	logger *log.Logger
	router chi.Router

	mu     sync.Mutex
	root   *tree.Node
	layout snapshot.Layout
	width  int
	height int

	httpServer *http.Server
}

// New creates a server for root and lays it out in the configured frame.
// A nil root serves the empty tree.
func New(cfg Config, root *tree.Node) *Server {
	cfg.setDefaults()
	if root == nil {
		root = tree.NewEmpty()
	}
	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		root:   root,
		width:  cfg.Width,
		height: cfg.Height,
	}
	s.relayout()
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/tree", s.handleTree)
		r.Get("/tiles", s.handleTiles)
		r.Get("/locate", s.handleLocate)
		r.Post("/nodes/{id}/{op}", s.handleNodeOp)

		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", s.handleListSnapshots)
			r.Put("/{name}", s.handleSaveSnapshot)
			r.Post("/{name}/load", s.handleLoadSnapshot)
			r.Delete("/{name}", s.handleDeleteSnapshot)
		})
	})

	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Root returns the current tree. The caller must not mutate it while the
// server is running.
func (s *Server) Root() *tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("treemap server listening", "addr", s.cfg.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// relayout recomputes rectangles and tiles. Callers hold s.mu, except New.
func (s *Server) relayout() {
	s.layout = snapshot.Compute(s.root, s.width, s.height)
}
