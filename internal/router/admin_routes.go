package router

import (
	"bsu_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes registers the admin panel API. Everything except
// login needs an admin token; sub-admin management needs the super admin.
func (rt *Router) RegisterAdminRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Admin

	rg.POST("/admin/login", h.Login)

	adminGroup := rg.Group("/admin")
	adminGroup.Use(middleware.JWTAuth(), middleware.AdminAuth())
	{
		adminGroup.GET("/users", h.GetUsers)
		adminGroup.POST("/users/:id/toggle", h.ToggleUser)
		adminGroup.GET("/reported-users", h.GetReportedUsers)
		adminGroup.POST("/settings", h.UpdateSetting)

		superGroup := adminGroup.Group("/sub-admins")
		superGroup.Use(middleware.SuperAdminAuth())
		{
			superGroup.GET("", h.GetSubAdmins)
			superGroup.POST("", h.CreateSubAdmin)
			superGroup.DELETE("/:id", h.DeleteSubAdmin)
		}
	}
}
