// Package api exposes the transform pipeline over HTTP for the web UI.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/edgedev/renata/internal/store"
	"github.com/edgedev/renata/pkg/models"
)

// Pipeline is what the handlers need from the transform service.
type Pipeline interface {
	Run(ctx context.Context, req models.TransformRequest, sessionID string) (*models.TransformResult, []models.GenerationAttempt, error)
	Classify(source string) models.ClassificationResult
}

// Server represents the API server
type Server struct {
	echo     *echo.Echo
	pipeline Pipeline
	store    store.Store
	port     int
	apiKey   string
}

// NewServer creates a new API server. An empty apiKey disables
// authentication (local development).
func NewServer(pipeline Pipeline, sessions store.Store, port int, apiKey string) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo:     e,
		pipeline: pipeline,
		store:    sessions,
		port:     port,
		apiKey:   apiKey,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	v1 := s.echo.Group("/api/v1", s.requireAPIKey)
	v1.POST("/transforms", s.createTransform)
	v1.GET("/transforms", s.listTransforms)
	v1.GET("/transforms/:id", s.getTransform)
	v1.POST("/classify", s.classifySource)
}

// requireAPIKey checks the X-API-Key header when a key is configured.
func (s *Server) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.apiKey != "" && c.Request().Header.Get("X-API-Key") != s.apiKey {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing API key")
		}
		return next(c)
	}
}

// Start begins the API server and blocks until an interrupt triggers a
// graceful shutdown.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
