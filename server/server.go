// Package server exposes the gallery over HTTP with htmx fragments, an RSS export and a status API.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/apodview/pkg/domain"
	"github.com/umputun/apodview/pkg/feed"
	"github.com/umputun/apodview/pkg/gallery"
	"github.com/umputun/apodview/pkg/modal"
	"github.com/umputun/apodview/pkg/viewer"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/viewer.go -pkg mocks -skip-ensure -fmt goimports . Viewer

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	config     ConfigProvider
	viewer     Viewer
	version    string
	debug      bool
	loadingMsg string

	page      *template.Template
	cards     *gallery.Renderer
	dialog    *modal.Renderer
	generator *feed.Generator

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Viewer is the application controller the handlers delegate to, state is kept per client page
type Viewer interface {
	Load(ctx context.Context, clientID string, rng gallery.Range) (viewer.LoadResult, error)
	Snapshot(ctx context.Context, rng gallery.Range) ([]domain.Record, error)
	OpenModal(clientID string, view uint64, idx int) (modal.Session, error)
	Dismiss(clientID string, ev modal.Event) viewer.Dismissal
	Status(clientID string) viewer.Status
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
}

// Params holds optional server settings
type Params struct {
	Version        string
	Debug          bool
	LoadingMessage string
}

// New initializes a new server instance
func New(cfg ConfigProvider, v Viewer, params Params) (*Server, error) {
	page, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	cards, err := gallery.NewRenderer()
	if err != nil {
		return nil, err
	}
	dialog, err := modal.NewRenderer()
	if err != nil {
		return nil, err
	}
	if params.LoadingMessage == "" {
		params.LoadingMessage = viewer.DefaultLoadingMessage
	}

	s := &Server{
		config:     cfg,
		viewer:     v,
		version:    params.Version,
		debug:      params.Debug,
		loadingMsg: params.LoadingMessage,
		page:       page,
		cards:      cards,
		dialog:     dialog,
		generator:  feed.NewGenerator(cfg.GetBaseURL()),
		router:     routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Handler returns the router with all middlewares and routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("apodview", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // forms here are tiny
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.indexHandler)
	s.router.HandleFunc("GET /gallery", s.galleryHandler)
	s.router.HandleFunc("GET /modal/{view}/{index}", s.modalHandler)
	s.router.HandleFunc("POST /modal/dismiss", s.dismissHandler)
	s.router.HandleFunc("GET /rss", s.rssHandler)

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
	})
}
