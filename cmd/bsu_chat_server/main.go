package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bsu_chat_server/internal/config"
	dao "bsu_chat_server/internal/dao/mysql"
	myredis "bsu_chat_server/internal/dao/redis"
	"bsu_chat_server/internal/handler"
	"bsu_chat_server/internal/https_server"
	"bsu_chat_server/internal/infrastructure/logger"
	"bsu_chat_server/internal/infrastructure/mq"
	"bsu_chat_server/internal/service"
	"bsu_chat_server/internal/service/chat"
	"bsu_chat_server/pkg/util/jwt"
	"bsu_chat_server/pkg/util/snowflake"
	"bsu_chat_server/pkg/util/timezone"

	"go.uber.org/zap"
)

func main() {
	// 1. config
	conf := config.GetConfig()

	// 2. logger
	if err := logger.Init(&conf.LogConfig, conf.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	// 3. process-wide helpers
	timezone.Init(conf.Timezone)
	snowflake.Init(conf.MachineID)
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)
	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("init validator translations failed", zap.Error(err))
	}

	// 4. storage
	db, repos := dao.Init(conf)
	cache := myredis.Init(conf.RedisConfig)

	// 5. moderation events
	publisher := mq.NewPublisher(conf.KafkaConfig)
	auditCtx, stopAudit := context.WithCancel(context.Background())
	audit := mq.NewAuditConsumer(conf.KafkaConfig)
	if audit != nil {
		go audit.Run(auditCtx)
	}

	// 6. services and realtime core
	services := service.NewServices(repos, cache, publisher, conf)
	chatServer := chat.NewServer(chat.ServerConfig{
		Users:            repos.User,
		Blocks:           repos.Block,
		Reports:          repos.Report,
		Settings:         services.Setting,
		Publisher:        publisher,
		MaxMessageLength: conf.MaxMessageLength,
		SendBufferSize:   conf.SendBufferSize,
	})
	sweeper := chat.NewSweeper(chat.SweeperConfig{
		Store:       chatServer.Store(),
		Settings:    services.Setting,
		Interval:    time.Duration(conf.SweepIntervalSeconds) * time.Second,
		DefaultTime: conf.DefaultRetention,
		DefaultUnit: conf.DefaultRetentionUnit,
	})
	sweeper.Start()

	// 7. http
	engine := https_server.Init(conf, handler.NewHandlers(services, chatServer))
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		var err error
		if conf.TLS && conf.CertFile != "" && conf.KeyFile != "" {
			zap.L().Info("https server listening", zap.String("addr", srv.Addr))
			err = srv.ListenAndServeTLS(conf.CertFile, conf.KeyFile)
		} else {
			zap.L().Info("http server listening", zap.String("addr", srv.Addr))
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down")

	sweeper.Stop()
	chatServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("http shutdown failed", zap.Error(err))
	}

	stopAudit()
	if audit != nil {
		if err := audit.Close(); err != nil {
			zap.L().Warn("close audit consumer failed", zap.Error(err))
		}
	}
	if err := publisher.Close(); err != nil {
		zap.L().Warn("close event publisher failed", zap.Error(err))
	}
	if err := cache.Close(); err != nil {
		zap.L().Warn("close cache failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zap.L().Info("server stopped")
}
