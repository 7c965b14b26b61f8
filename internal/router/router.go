// Package router registers every route on the gin engine.
package router

import (
	"bsu_chat_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// Router holds the handlers the routes point at.
type Router struct {
	handlers *handler.Handlers
}

func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes registers all route groups.
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	rt.RegisterUserRoutes(api)
	rt.RegisterAdminRoutes(api)
	rt.RegisterWebSocketRoutes(r)

	r.GET("/health", func(c *gin.Context) {
		handler.HandleSuccess(c, gin.H{"status": "ok"})
	})
}
