package main

import (
	"net/http"
	"strings"

	"devdesk/application/assets"
	"devdesk/application/health"
	"devdesk/application/kb"
	"devdesk/application/tickets"
	"devdesk/config"
	"devdesk/internal/storage"
	"devdesk/internal/stream"
	"devdesk/middleware"
	"devdesk/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires every handler onto one engine. Unknown /api paths get a
// JSON 404; any other GET falls through to the browser shell.
func SetupRouter(store *storage.Store, z *zap.Logger, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestInit())
	r.Use(middleware.AccessLog(z))
	r.Use(middleware.ResponseInit(z))

	chunks := stream.ChunkConfig{
		ChunkThreshold: cfg.Stream.ChunkThreshold,
		BufferSize:     cfg.Stream.BufferSize,
	}

	healthHandler := health.NewHandler(health.NewService(health.NewRepository(store), z))
	ticketsHandler := tickets.NewHandler(tickets.NewService(tickets.NewRepository(store), z, chunks))
	kbHandler := kb.NewHandler(kb.NewService(kb.NewRepository(store), z, chunks))
	assetsHandler := assets.NewHandler(assets.NewService(assets.NewRepository(store), z, chunks))

	api := r.Group("/api")
	healthHandler.RegisterRoutes(api)
	ticketsHandler.RegisterRoutes(api)
	kbHandler.RegisterRoutes(api)
	assetsHandler.RegisterRoutes(api)

	shell := web.Handler()
	notFound := middleware.APINotFound(z)
	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			notFound(c)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		shell.ServeHTTP(c.Writer, c.Request)
	})

	return r
}
