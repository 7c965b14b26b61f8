// Package handler holds the gin handlers. Handlers bind and validate
// input, call one service method and write the {code,msg,data} envelope.
package handler

import (
	"bsu_chat_server/internal/service"
	"bsu_chat_server/internal/service/chat"
)

// Handlers aggregates every handler for the router.
type Handlers struct {
	User    *UserHandler
	Admin   *AdminHandler
	Setting *SettingHandler
	Ws      *WsHandler
}

// NewHandlers injects the services into the handlers.
func NewHandlers(svc *service.Services, chatServer *chat.Server) *Handlers {
	return &Handlers{
		User:    NewUserHandler(svc.User),
		Admin:   NewAdminHandler(svc.Admin, svc.User, svc.Setting),
		Setting: NewSettingHandler(svc.Setting),
		Ws:      NewWsHandler(chatServer),
	}
}
