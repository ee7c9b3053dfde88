package client

import (
	"Campus/config"
	"Campus/pkg/log"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient 连接失败不退出：未读数缓存是尽力而为的，
// 没有 redis 时各读取路径直接回源数据库
func NewRedisClient(conf *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Redis.Address, conf.Redis.Port),
		Password: conf.Redis.Password,
		Username: conf.Redis.Username,
		DB:       conf.Redis.Database,
	})
	if _, err := client.Ping(context.TODO()).Result(); err != nil {
		log.L.Warn("connect redis error", zap.Error(err))
		return client
	}
	log.L.Info("redis client success")
	return client
}
