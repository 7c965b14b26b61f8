// Package https_server builds the gin engine: middleware, static client
// and routes.
package https_server

import (
	"bsu_chat_server/internal/config"
	"bsu_chat_server/internal/handler"
	"bsu_chat_server/internal/infrastructure/logger"
	"bsu_chat_server/internal/infrastructure/middleware"
	"bsu_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init returns an engine with logging, recovery, CORS, optional TLS
// headers and every route registered.
func Init(conf *config.Config, handlers *handler.Handlers) *gin.Engine {
	if conf.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	if conf.TLS {
		engine.Use(middleware.SecureHeaders(conf.MainConfig.Host, conf.MainConfig.Port, true, conf.Mode != "release"))
	}

	if conf.StaticPath != "" {
		engine.Static("/public", conf.StaticPath)
	}

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
