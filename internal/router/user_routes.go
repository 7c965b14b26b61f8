package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers the public student and settings routes.
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/verification-questions", rt.handlers.User.VerificationQuestions)
	rg.POST("/register", rt.handlers.User.Register)
	rg.POST("/login", rt.handlers.User.Login)
	rg.GET("/settings/:key", rt.handlers.Setting.GetSetting)
}
