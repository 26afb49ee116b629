package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"call-tracker/internal/config"
	"call-tracker/internal/httpapi"
	"call-tracker/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// newRouter builds the gin engine: middleware, API routes and the static UI.
// Keep this file free of business logic. Handlers delegate to internal modules.
func newRouter(log *slog.Logger, cfg config.Config, h httpapi.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(cors.New(corsConfig(cfg.HTTP.AllowedOrigins)))

	httpapi.Register(r, h)

	// The browser UI is optional; serve it when the directory exists.
	if fi, err := os.Stat(cfg.HTTP.PublicDir); err == nil && fi.IsDir() {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.HTTP.PublicDir))))
	} else {
		log.Info("static ui disabled", "dir", cfg.HTTP.PublicDir)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", logger.HeaderRequestID},
		ExposeHeaders: []string{logger.HeaderRequestID, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}
