// Package api serves pattern generation, photo uploads and overlay sizing
// over HTTP.
//
// # Routes
//
//	GET    /health
//	POST   /api/patterns/generate
//	GET    /api/patterns/stream          (websocket)
//	GET    /api/patterns
//	GET    /api/patterns/{id}
//	GET    /api/patterns/{id}/download
//	DELETE /api/patterns/{id}
//	POST   /api/images/upload
//	GET    /api/images/{id}
//	POST   /api/overlay/calculate
//
// Errors are returned as {"detail": message, "code": code} with the status
// from [errors.HTTPStatus].
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/hextile/pkg/imageproc"
	"github.com/matzehuels/hextile/pkg/pipeline"
	"github.com/matzehuels/hextile/pkg/store"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8000"

	shutdownTimeout = 10 * time.Second
)

// Config wires a Server to its dependencies. Nil fields get in-memory
// defaults.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Images *imageproc.Registry
	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	images   *imageproc.Registry
	logger   *log.Logger
	router   chi.Router
	upgrader websocket.Upgrader
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Images == nil {
		cfg.Images = imageproc.NewRegistry(0)
	}
	s := &Server{
		runner: cfg.Runner,
		store:  cfg.Store,
		images: cfg.Images,
		logger: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/patterns", func(r chi.Router) {
			r.Post("/generate", s.handleGenerate)
			r.Get("/stream", s.handleStream)
			r.Get("/", s.handleListPatterns)
			r.Get("/{id}", s.handleGetPattern)
			r.Get("/{id}/download", s.handleDownload)
			r.Delete("/{id}", s.handleDeletePattern)
		})
		r.Post("/images/upload", s.handleUpload)
		r.Get("/images/{id}", s.handleGetImage)
		r.Post("/overlay/calculate", s.handleOverlay)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
