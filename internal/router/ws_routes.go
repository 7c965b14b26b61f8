package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes registers the realtime entry point.
// ws://host:port/ws, identity follows in the authenticate event.
func (rt *Router) RegisterWebSocketRoutes(r *gin.Engine) {
	r.GET("/ws", rt.handlers.Ws.Connect)
}
