package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pokedex/internal/auth"
	"pokedex/internal/events"
	"pokedex/internal/pokemon"
	"pokedex/internal/prefs"
	"pokedex/internal/sprite"
	"pokedex/pkg/utils"
)

type deps struct {
	DB      *sql.DB
	DBPath  string
	Hub     *events.Hub
	Pokemon *pokemon.Repo
	Sprites *sprite.Handler
	Loader  pokemon.Loader
	Tokens  auth.TokenService
	Logger  *zap.Logger
}

func newRouter(d deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), utils.GinLogger(d.Logger))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/ws", events.WSHandler(d.Hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": d.DBPath})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := d.Hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := d.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Dex data and sprites (public)
	sprites := d.Sprites
	if sprites == nil {
		sprites = sprite.NewHandler(nil)
	}
	sprites.RegisterRoutes(router.Group(""))
	pokemon.NewHandler(d.Pokemon, sprites, d.Loader, d.Logger).RegisterRoutes(router.Group(""))

	// Trainer accounts
	authRepo := auth.NewRepo(d.DB)
	authHandler := auth.NewHandler(authRepo, d.Tokens, d.Logger)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Preferences (protected)
	protected := router.Group("/users", authHandler.Middleware())
	prefs.NewHandler(prefs.NewRepo(d.DB), d.Hub, d.Logger).RegisterRoutes(protected)

	return router
}
