package http

import (
	stdhttp "net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ochirbat/supportchat-server/internal/auth"
	"github.com/ochirbat/supportchat-server/internal/config"
	"github.com/ochirbat/supportchat-server/internal/core"
	"github.com/ochirbat/supportchat-server/internal/store"
)

// NewServer builds the HTTP server: REST API, health check and the
// WebSocket endpoint.
func NewServer(registry *core.Registry, router *core.Router, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware(logger))

	// The browser client is served from another origin; cookies must be
	// allowed through.
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := NewAPIHandlers(authService, st, logger)

	engine.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	engine.POST("/api/login", api.Login)
	engine.POST("/api/logout", api.Logout)
	engine.GET("/api/session", api.Session)

	authed := engine.Group("/api", AuthMiddleware(authService, logger))
	authed.GET("/users", api.ListUsers)
	authed.GET("/messages", api.ListMessages)

	ws := NewWSHandler(registry, router, authService, logger)
	engine.GET("/ws", gin.WrapH(ws))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
