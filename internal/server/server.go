package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/penmark/blog-demo/app/internal/config"
	"github.com/penmark/blog-demo/app/internal/logger"
	"github.com/penmark/blog-demo/app/internal/server/handlers"
	blogmw "github.com/penmark/blog-demo/app/internal/server/middleware"
	"github.com/penmark/blog-demo/app/internal/store"
)

type Server struct {
	store  *store.Store
	config *config.ServerEnvironment
	logger *slog.Logger
	router *chi.Mux
}

func NewServer(
	st *store.Store,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) *Server {
	server := &Server{
		store:  st,
		config: cfg,
		logger: logger,
		router: chi.NewRouter(),
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(blogmw.SecurityHeaders(s.config.Environment))
	s.router.Use(blogmw.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(blogmw.RequestSizeLimit(s.config.MaxRequestSize))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health/live", handlers.HandleHealth)
	s.router.Get("/ready", handlers.HandleReadiness(s.store))
	s.router.Get("/version", handlers.HandleVersion())

	s.router.Route("/posts", func(r chi.Router) {
		r.Get("/", handlers.HandleListPosts(s.store))
		r.Post("/", handlers.HandleCreatePost(s.store))
		r.Get("/{postID}", handlers.HandleGetPostByID(s.store))
		r.Put("/{postID}", handlers.HandleUpdatePost(s.store))
		r.Delete("/{postID}", handlers.HandleDeletePost(s.store))
	})
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

// DatabaseShutdown closes the document store connection. Called after the
// HTTP server has finished shutting down.
func (s *Server) DatabaseShutdown() {
	if s.store != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
		defer cancel()
		s.store.Close(shutdownCtx)
	}
}
