// Package server exposes the generation pipeline over HTTP for the web
// dashboard: start/inspect/cancel jobs, manage provider settings, browse
// stored assets and hand off to the render server.
package server

import (
	"context"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"shortsfactory/internal/generator"
	"shortsfactory/internal/render"
	"shortsfactory/internal/settings"
	"shortsfactory/internal/storage"
)

type Server struct {
	Echo *echo.Echo

	gen      *generator.Generator
	runner   *generator.Runner
	settings settings.Store
	store    storage.Store
	renderer *render.Client

	// topic of the most recent job, used to title render output
	topicMu   sync.Mutex
	lastTopic string
}

type Options struct {
	Generator *generator.Generator
	Settings  settings.Store
	Store     storage.Store
	Renderer  *render.Client
	// AssetsDir, when set, is served at /assets for the local store.
	AssetsDir string
}

func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:     e,
		gen:      opts.Generator,
		runner:   generator.NewRunner(opts.Generator),
		settings: opts.Settings,
		store:    opts.Store,
		renderer: opts.Renderer,
	}

	if opts.AssetsDir != "" {
		e.Static("/assets", opts.AssetsDir)
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.Echo.Group("/api")

	api.POST("/generate", s.handleGenerate)
	api.GET("/generate/status", s.handleGenerateStatus)
	api.POST("/generate/cancel", s.handleGenerateCancel)

	api.GET("/connection", s.handleConnection)

	api.GET("/settings", s.handleGetSettings)
	api.PUT("/settings/provider", s.handlePutProvider)
	api.PUT("/settings/keys/:provider", s.handlePutKey)
	api.DELETE("/settings/keys/:provider", s.handleDeleteKey)

	api.GET("/assets", s.handleListAssets)
	api.DELETE("/assets", s.handleDeleteAsset)

	api.GET("/render/command", s.handleRenderCommand)
	api.POST("/render", s.handleRender)
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
