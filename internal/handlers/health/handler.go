package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"taskboard/internal/domains/task/repository"
	"taskboard/transport/http/response"
)

type Handler struct {
	repository repository.Task
}

func New(repository repository.Task) Handler {
	return Handler{
		repository: repository,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/", handler.Info)
	router.Get("/health", handler.Health)
}

// Info describes the service.
// @Summary Service info
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api [get]
func (handler *Handler) Info(w http.ResponseWriter, r *http.Request) {
	response.WithJSON(w, http.StatusOK, map[string]string{
		"service": "taskboard",
		"version": "1.0.0",
	})
}

// Health reports database connectivity.
// @Summary Health check
// @Description Run a trivial database round trip and report connectivity.
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/health [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := handler.repository.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed")

		response.WithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
		})

		return
	}

	response.WithJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}
