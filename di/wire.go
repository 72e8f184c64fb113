//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"taskboard/config"
	"taskboard/infras/otel"
	"taskboard/infras/postgres"
	"taskboard/infras/redis"
	taskRepository "taskboard/internal/domains/task/repository"
	taskService "taskboard/internal/domains/task/service"
	healthHandler "taskboard/internal/handlers/health"
	taskHandler "taskboard/internal/handlers/task"
	webHandler "taskboard/internal/handlers/web"
	"taskboard/shared/cache"
	"taskboard/transport/http"
	"taskboard/transport/http/middleware"
	"taskboard/transport/http/router"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var taskDomain = wire.NewSet(
	taskRepository.New,
	taskService.New,
)

var domains = wire.NewSet(
	taskDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	taskHandler.New,
	webHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
