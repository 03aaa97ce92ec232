// Package server exposes the content aggregator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fortunesite/internal/content"
	"fortunesite/internal/logger"
	"fortunesite/internal/models"
)

// Content is the aggregator surface the handlers need.
type Content interface {
	GetContent(ctx context.Context, collection string) []models.Post
	GetPostByID(ctx context.Context, id string) (models.Post, error)
	CurrentMode() models.Mode
	ToggleMode(useRemote bool)
}

// Options configures a Server.
type Options struct {
	Content Content
	Logger  *logger.Logger
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer        prometheus.Gatherer
	Addr            string
	ShutdownTimeout time.Duration
}

// Server serves collections and posts as JSON.
type Server struct {
	content  Content
	logger   *logger.Logger
	gatherer prometheus.Gatherer
	addr     string
	grace    time.Duration
}

// CollectionResponse is the body of GET /api/collections/:name.
type CollectionResponse struct {
	Mode  models.Mode   `json:"mode"`
	Posts []models.Post `json:"posts"`
}

// New creates a server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	return &Server{
		content:  opts.Content,
		logger:   opts.Logger.Component("server"),
		gatherer: opts.Gatherer,
		addr:     opts.Addr,
		grace:    opts.ShutdownTimeout,
	}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(s.logger))
	router.Use(LoggingMiddleware(s.logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.GET("/collections/:name", s.handleCollection)
	api.GET("/posts/:id", s.handlePost)
	api.GET("/mode", s.handleMode)
	api.POST("/mode", s.handleToggleMode)

	return router
}

func (s *Server) handleCollection(c *gin.Context) {
	mode := s.content.CurrentMode()
	posts := s.content.GetContent(c.Request.Context(), c.Param("name"))

	c.JSON(http.StatusOK, CollectionResponse{Mode: mode, Posts: posts})
}

func (s *Server) handlePost(c *gin.Context) {
	post, err := s.content.GetPostByID(c.Request.Context(), c.Param("id"))

	switch {
	case err == nil:
		c.JSON(http.StatusOK, post)
	case errors.Is(err, content.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	default:
		s.logger.Warn("post lookup failed", "id", c.Param("id"), "request_id", RequestID(c), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "content source unavailable"})
	}
}

func (s *Server) handleMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mode": s.content.CurrentMode()})
}

// ToggleRequest is the body of POST /api/mode.
type ToggleRequest struct {
	UseMicroCMS *bool `json:"useMicroCMS" binding:"required"`
}

// handleToggleMode records the request; the mode itself only changes
// through configuration, so the response reports the unchanged mode.
func (s *Server) handleToggleMode(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"useMicroCMS\": bool}"})
		return
	}

	s.content.ToggleMode(*req.UseMicroCMS)

	c.JSON(http.StatusOK, gin.H{"mode": s.content.CurrentMode(), "changed": false})
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server", "addr", s.addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("server stopped")

	return nil
}
