package service

import (
	"bsu_chat_server/internal/config"
	"bsu_chat_server/internal/dao/mysql/repository"
	myredis "bsu_chat_server/internal/dao/redis"
	"bsu_chat_server/internal/infrastructure/mq"
	"bsu_chat_server/internal/service/admin"
	"bsu_chat_server/internal/service/setting"
	"bsu_chat_server/internal/service/user"
)

// Services aggregates every service for injection into handlers.
type Services struct {
	User    UserService
	Admin   AdminService
	Setting SettingService
}

// NewServices wires the services. cache may be nil, in which case
// settings are always read from the database.
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, publisher mq.EventPublisher, conf *config.Config) *Services {
	return &Services{
		User:    user.NewUserService(repos, publisher, conf.ReportThreshold),
		Admin:   admin.NewAdminService(repos, conf.SuperAdminConfig),
		Setting: setting.NewSettingService(repos, cache),
	}
}
