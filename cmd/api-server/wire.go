//go:build wireinject
// +build wireinject

package main

import (
	"Campus/config"
	"Campus/dao"
	"Campus/dao/cache"
	"Campus/handler"
	"Campus/pkg/client"
	"Campus/pkg/database"
	"Campus/pkg/queue"
	"Campus/pkg/server"
	"Campus/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.HttpServer {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		config.ProvideRocketMQConfig,
		queue.NewRocketDispatcher,
		wire.Bind(new(queue.Dispatcher), new(*queue.RocketDispatcher)),

		cache.ProviderSet,
		dao.ProviderSet,
		service.ProviderSet,
		handler.ProviderSet,

		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.HttpServer), "*"),
	)
	return nil
}
