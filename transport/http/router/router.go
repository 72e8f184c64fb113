package router

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"taskboard/internal/handlers/health"
	"taskboard/internal/handlers/task"
	"taskboard/internal/handlers/web"
)

type DomainHandlers struct {
	Health health.Handler
	Task   task.Handler
	Web    web.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Web.Router(router)

	router.Route("/api", func(routerGroup chi.Router) {
		r.DomainHandlers.Health.Router(routerGroup)
		r.DomainHandlers.Task.Router(routerGroup)
	})

	router.Get("/swagger/*", httpSwagger.WrapHandler)
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
