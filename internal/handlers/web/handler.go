package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"taskboard/infras/otel"
	"taskboard/internal/domains/task/model/dto"
	"taskboard/internal/domains/task/service"
	"taskboard/shared/constant"
	"taskboard/shared/failure"
	"taskboard/shared/validator"
	"taskboard/web"
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
	router.Get("/", handler.Index)
	router.Route("/tasks", func(routerGroup chi.Router) {
		routerGroup.Get("/create", handler.CreateForm)
		routerGroup.Post("/create", handler.Create)
		routerGroup.Get("/{id}", handler.Detail)
		routerGroup.Get("/{id}/edit", handler.EditForm)
		routerGroup.Post("/{id}/edit", handler.Edit)
		routerGroup.Post("/{id}/delete", handler.Delete)
		routerGroup.Post("/{id}/toggle", handler.Toggle)
	})
}

// taskView flattens the optional fields so templates can print them directly.
type taskView struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	CreatedAt   string
	UpdatedAt   string
}

func toView(task dto.TaskResponse) taskView {
	view := taskView{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
	}

	if task.Description != nil {
		view.Description = *task.Description
	}

	if task.UpdatedAt != nil {
		view.UpdatedAt = *task.UpdatedAt
	}

	return view
}

func toViews(tasks []dto.TaskResponse) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, toView(task))
	}

	return views
}

// Index renders the task list, optionally filtered by a search term.
func (handler *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Index")
	defer scope.End()

	query := r.URL.Query().Get(constant.RequestParamSearch)

	var (
		tasks dto.GetTasksResponse
		err   error
	)

	if query != "" {
		tasks, err = handler.service.Search(ctx, query, 0)
	} else {
		tasks, err = handler.service.List(ctx, 0, 0, nil)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list tasks for index page")
		handler.renderError(w, err)

		return
	}

	handler.render(w, "index.html", map[string]any{
		"Tasks": toViews(tasks.Tasks),
		"Query": query,
	})
}

// CreateForm renders the empty create form.
func (handler *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	handler.render(w, "create_task.html", map[string]any{
		"Title":       "",
		"Description": "",
		"Completed":   false,
		"Error":       "",
	})
}

// Create handles the create form submission and redirects to the new task.
func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Create")
	defer scope.End()

	form, err := parseTaskForm(r)
	if err != nil {
		scope.TraceError(err)
		handler.render(w, "create_task.html", map[string]any{
			"Title":       form.Title,
			"Description": formDescription(form),
			"Completed":   form.Completed,
			"Error":       "Title must not be blank.",
		})

		return
	}

	task, err := handler.service.Create(ctx, form.ToCreateRequest())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create task from form")
		handler.renderError(w, err)

		return
	}

	http.Redirect(w, r, "/tasks/"+strconv.FormatInt(task.ID, 10), http.StatusSeeOther)
}

// Detail renders one task.
func (handler *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Detail")
	defer scope.End()

	id, err := parseID(r)
	if err != nil {
		scope.TraceError(err)
		handler.renderError(w, err)

		return
	}

	task, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		handler.renderError(w, err)

		return
	}

	handler.render(w, "task_detail.html", map[string]any{
		"Task": toView(task),
	})
}

// EditForm renders the edit form pre-filled with the task's current state.
func (handler *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".EditForm")
	defer scope.End()

	id, err := parseID(r)
	if err != nil {
		scope.TraceError(err)
		handler.renderError(w, err)

		return
	}

	task, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		handler.renderError(w, err)

		return
	}

	handler.render(w, "update_task.html", map[string]any{
		"Task":  toView(task),
		"Error": "",
	})
}

// Edit handles the edit form submission. The form always carries every
// field, so the submission replaces the whole task.
func (handler *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Edit")
	defer scope.End()

	id, err := parseID(r)
	if err != nil {
		scope.TraceError(err)
		handler.renderError(w, err)

		return
	}

	form, err := parseTaskForm(r)
	if err != nil {
		scope.TraceError(err)
		handler.render(w, "update_task.html", map[string]any{
			"Task": taskView{
				ID:          id,
				Title:       form.Title,
				Description: formDescription(form),
				Completed:   form.Completed,
			},
			"Error": "Title must not be blank.",
		})

		return
	}

	if _, err := handler.service.Update(ctx, id, form.ToUpdateRequest()); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update task from form")
		handler.renderError(w, err)

		return
	}

	http.Redirect(w, r, "/tasks/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// Delete removes a task and redirects to the task list.
func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Delete")
	defer scope.End()

	id, err := parseID(r)
	if err != nil {
		scope.TraceError(err)
		handler.renderError(w, err)

		return
	}

	if _, err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete task from form")
		handler.renderError(w, err)

		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Toggle flips a task's completion flag and redirects back.
func (handler *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Toggle")
	defer scope.End()

	id, err := parseID(r)
	if err != nil {
		scope.TraceError(err)
		handler.renderError(w, err)

		return
	}

	if _, err := handler.service.Toggle(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle task from form")
		handler.renderError(w, err)

		return
	}

	target := r.Referer()
	if target == "" {
		target = "/tasks/" + strconv.FormatInt(id, 10)
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (handler *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeHTML)

	if err := web.Render(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render template")
	}
}

func (handler *Handler) renderError(w http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	http.Error(w, http.StatusText(code), code)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamID), 10, 64)
	if err != nil {
		return 0, failure.InvalidIDParam
	}

	return id, nil
}

func parseTaskForm(r *http.Request) (dto.TaskForm, error) {
	if err := r.ParseForm(); err != nil {
		return dto.TaskForm{}, failure.BadRequestFromString("invalid form body")
	}

	form := dto.TaskForm{
		Title:     r.PostFormValue("title"),
		Completed: r.PostFormValue("completed") == "true" || r.PostFormValue("completed") == "on",
	}

	if description := r.PostFormValue("description"); description != "" {
		form.Description = &description
	}

	if err := validator.ValidateStruct(&form); err != nil {
		return form, err
	}

	return form, nil
}

func formDescription(form dto.TaskForm) string {
	if form.Description == nil {
		return ""
	}

	return *form.Description
}
