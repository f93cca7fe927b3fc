// Package server provides the HTTP API for the embeddings service.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/newnotes/embedsvc/internal/config"
	"github.com/newnotes/embedsvc/internal/embedding"
)

// Loader hands out the shared embedder, loading the model on first use.
type Loader interface {
	Get() (embedding.Embedder, error)
}

// Server is the HTTP server for the embeddings API.
type Server struct {
	loader Loader
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(loader Loader, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		loader: loader,
		config: cfg,
		logger: logger,
	}
}

// Router returns the HTTP handler with all middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Post("/api/embeddings/generate", s.handleGenerate)
	r.Post("/api/embeddings/generate/batch", s.handleGenerateBatch)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
