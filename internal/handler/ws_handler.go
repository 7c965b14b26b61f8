package handler

import (
	"bsu_chat_server/internal/service/chat"

	"github.com/gin-gonic/gin"
)

// WsHandler upgrades browser connections for the realtime chat.
type WsHandler struct {
	chat *chat.Server
}

func NewWsHandler(server *chat.Server) *WsHandler {
	return &WsHandler{chat: server}
}

// Connect GET /ws
// Identity is established afterwards by the authenticate event.
func (h *WsHandler) Connect(c *gin.Context) {
	h.chat.ServeWS(c)
}
