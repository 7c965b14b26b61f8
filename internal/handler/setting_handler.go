package handler

import (
	"bsu_chat_server/internal/dto/respond"
	"bsu_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingHandler serves public setting reads (daily topic, rules, about).
type SettingHandler struct {
	settingSvc service.SettingService
}

func NewSettingHandler(settingSvc service.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// GetSetting GET /api/settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	value, err := h.settingSvc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.SettingRespond{Value: value})
}
