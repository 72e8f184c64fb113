package task

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"taskboard/infras/otel"
	"taskboard/internal/domains/task/model/dto"
	"taskboard/internal/domains/task/service"
	"taskboard/shared"
	"taskboard/shared/constant"
	gDto "taskboard/shared/dto"
	"taskboard/shared/failure"
	"taskboard/shared/validator"
	"taskboard/transport/http/response"
)

type Handler struct {
	service service.Task
	otel    otel.Otel
}

func New(service service.Task, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tasks", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetTasks)
		routerGroup.Post("/", handler.CreateTask)
		routerGroup.Get("/search", handler.SearchTasks)
		routerGroup.Get("/completed", handler.GetCompletedTasks)
		routerGroup.Get("/pending", handler.GetPendingTasks)
		routerGroup.Get("/recent", handler.GetRecentTasks)
		routerGroup.Post("/bulk", handler.BulkCreateTasks)
		routerGroup.Delete("/bulk", handler.BulkDeleteTasks)
		routerGroup.Patch("/bulk/completion", handler.BulkUpdateCompletion)
		routerGroup.Get("/{id}", handler.GetTaskByID)
		routerGroup.Patch("/{id}", handler.UpdateTask)
		routerGroup.Delete("/{id}", handler.DeleteTask)
		routerGroup.Post("/{id}/toggle", handler.ToggleTask)
	})
}

// GetTasks retrieves tasks ordered newest first.
// @Summary List tasks
// @Description Retrieve tasks ordered by creation time descending, with optional completion filter and skip/limit window.
// @Tags Task
// @Accept json
// @Produce json
// @Param completed query boolean false "Filter by completion status"
// @Param skip query integer false "Rows to skip after filtering and ordering"
// @Param limit query integer false "Maximum rows to return"
// @Success 200 {object} dto.GetTasksResponse
// @Failure 500 {object} response.Error
// @Router /api/tasks [get]
func (handler *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTasks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	completed := shared.ConvertStringToBool(r.URL.Query().Get("completed"))

	tasks, err := handler.service.List(ctx, queryParams.Skip, queryParams.Limit, completed)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a new task.
// @Summary Create a task
// @Description Create a task from a JSON body; id and created_at are assigned by storage.
// @Tags Task
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Create Task Request"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks [post]
func (handler *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTask")
	defer scope.End()

	req := dto.CreateTaskRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	task, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create task")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Task created successfully")

	response.WithJSON(w, http.StatusCreated, task)
}

// SearchTasks searches title and description.
// @Summary Search tasks
// @Description Case-insensitive substring search over title and description, newest first.
// @Tags Task
// @Accept json
// @Produce json
// @Param q query string false "Search term"
// @Param limit query integer false "Maximum rows to return"
// @Success 200 {object} dto.GetTasksResponse
// @Failure 500 {object} response.Error
// @Router /api/tasks/search [get]
func (handler *Handler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchTasks")
	defer scope.End()

	term := r.URL.Query().Get(constant.RequestParamSearch)

	limit := 0
	if rawLimit := r.URL.Query().Get(constant.RequestParamLimit); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	tasks, err := handler.service.Search(ctx, term, limit)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tasks)
}

// GetCompletedTasks lists completed tasks.
// @Summary List completed tasks
// @Tags Task
// @Produce json
// @Param skip query integer false "Rows to skip"
// @Param limit query integer false "Maximum rows to return"
// @Success 200 {object} dto.GetTasksResponse
// @Failure 500 {object} response.Error
// @Router /api/tasks/completed [get]
func (handler *Handler) GetCompletedTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCompletedTasks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	tasks, err := handler.service.ListCompleted(ctx, queryParams.Skip, queryParams.Limit)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get completed tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tasks)
}

// GetPendingTasks lists pending tasks.
// @Summary List pending tasks
// @Tags Task
// @Produce json
// @Param skip query integer false "Rows to skip"
// @Param limit query integer false "Maximum rows to return"
// @Success 200 {object} dto.GetTasksResponse
// @Failure 500 {object} response.Error
// @Router /api/tasks/pending [get]
func (handler *Handler) GetPendingTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPendingTasks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	tasks, err := handler.service.ListPending(ctx, queryParams.Skip, queryParams.Limit)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pending tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tasks)
}

// GetRecentTasks lists the most recently created tasks.
// @Summary List recent tasks
// @Tags Task
// @Produce json
// @Param limit query integer false "Maximum rows to return"
// @Success 200 {object} dto.GetTasksResponse
// @Failure 500 {object} response.Error
// @Router /api/tasks/recent [get]
func (handler *Handler) GetRecentTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRecentTasks")
	defer scope.End()

	limit := 0
	if rawLimit := r.URL.Query().Get(constant.RequestParamLimit); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	tasks, err := handler.service.Recent(ctx, limit)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get recent tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tasks)
}

// GetTaskByID retrieves a task.
// @Summary Get a task by ID
// @Tags Task
// @Produce json
// @Param id path integer true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/{id} [get]
func (handler *Handler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTaskByID")
	defer scope.End()

	id, err := parseID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	task, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get task by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, task)
}

// UpdateTask partially updates a task.
// @Summary Update a task by ID
// @Description Apply a partial patch; omitted fields keep their prior values.
// @Tags Task
// @Accept json
// @Produce json
// @Param id path integer true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Update Task Request"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/{id} [patch]
func (handler *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTask")
	defer scope.End()

	id, err := parseID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.UpdateTaskRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	task, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update task")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Task updated successfully")

	response.WithJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task and returns its last state.
// @Summary Delete a task by ID
// @Tags Task
// @Produce json
// @Param id path integer true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/{id} [delete]
func (handler *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTask")
	defer scope.End()

	id, err := parseID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	task, err := handler.service.Delete(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete task")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Task deleted successfully")

	response.WithJSON(w, http.StatusOK, task)
}

// ToggleTask flips a task's completion flag.
// @Summary Toggle task completion
// @Tags Task
// @Produce json
// @Param id path integer true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/{id}/toggle [post]
func (handler *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleTask")
	defer scope.End()

	id, err := parseID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	task, err := handler.service.Toggle(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle task completion")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, task)
}

// BulkCreateTasks creates a batch of tasks atomically.
// @Summary Bulk create tasks
// @Description Insert all tasks in one transaction; either every task is created or none.
// @Tags Task
// @Accept json
// @Produce json
// @Param request body dto.BulkCreateTasksRequest true "Bulk Create Request"
// @Success 201 {object} dto.GetTasksResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/bulk [post]
func (handler *Handler) BulkCreateTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BulkCreateTasks")
	defer scope.End()

	req := dto.BulkCreateTasksRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	tasks, err := handler.service.BulkCreate(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to bulk create tasks")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tasks bulk created successfully")

	response.WithJSON(w, http.StatusCreated, dto.GetTasksResponse{
		Tasks:     tasks,
		TotalPage: 1,
		TotalData: len(tasks),
	})
}

// BulkDeleteTasks deletes a batch of tasks by id.
// @Summary Bulk delete tasks
// @Description Delete all listed ids; the count reflects rows actually removed.
// @Tags Task
// @Accept json
// @Produce json
// @Param request body dto.BulkDeleteTasksRequest true "Bulk Delete Request"
// @Success 200 {object} dto.BulkCountResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/bulk [delete]
func (handler *Handler) BulkDeleteTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BulkDeleteTasks")
	defer scope.End()

	req := dto.BulkDeleteTasksRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	affected, err := handler.service.BulkDelete(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to bulk delete tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.BulkCountResponse{Affected: affected})
}

// BulkUpdateCompletion sets completion for a batch of tasks.
// @Summary Bulk update task completion
// @Tags Task
// @Accept json
// @Produce json
// @Param request body dto.BulkCompletionRequest true "Bulk Completion Request"
// @Success 200 {object} dto.BulkCountResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/tasks/bulk/completion [patch]
func (handler *Handler) BulkUpdateCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BulkUpdateCompletion")
	defer scope.End()

	req := dto.BulkCompletionRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	affected, err := handler.service.BulkUpdateCompletion(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to bulk update task completion")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.BulkCountResponse{Affected: affected})
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamID), 10, 64)
	if err != nil {
		return 0, failure.InvalidIDParam
	}

	return id, nil
}
