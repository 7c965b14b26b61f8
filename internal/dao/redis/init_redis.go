package redis

import (
	"context"
	"strconv"
	"time"

	"bsu_chat_server/internal/config"
	"bsu_chat_server/pkg/constants"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Init connects to Redis and starts the cache worker pool. An unreachable
// server is logged, not fatal: callers fall back to the database.
func Init(conf config.RedisConfig) AsyncCacheService {
	client := redis.NewClient(&redis.Options{
		Addr:         conf.Host + ":" + strconv.Itoa(conf.Port),
		Password:     conf.Password,
		DB:           conf.Db,
		PoolSize:     50,
		MinIdleConns: constants.CACHE_WORKER_NUM,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis unreachable, settings will be read from the database", zap.String("addr", client.Options().Addr), zap.Error(err))
	}

	return NewRedisCache(client, constants.CACHE_WORKER_NUM, constants.CACHE_TASK_CHAN_SIZE)
}
