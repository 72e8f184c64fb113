package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"taskboard/infras/otel"
	"taskboard/internal/domains/task/model"
	"taskboard/internal/domains/task/model/dto"
	"taskboard/internal/domains/task/repository"
	"taskboard/shared"
	"taskboard/shared/constant"
	gDto "taskboard/shared/dto"
	"taskboard/shared/failure"
	"taskboard/shared/timezone"
)

type Task interface {
	Create(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error)
	Get(ctx context.Context, id int64) (dto.TaskResponse, error)
	List(ctx context.Context, skip, limit int, completed *bool) (dto.GetTasksResponse, error)
	ListCompleted(ctx context.Context, skip, limit int) (dto.GetTasksResponse, error)
	ListPending(ctx context.Context, skip, limit int) (dto.GetTasksResponse, error)
	Recent(ctx context.Context, limit int) (dto.GetTasksResponse, error)
	Count(ctx context.Context, completed *bool) (int, error)
	Search(ctx context.Context, term string, limit int) (dto.GetTasksResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTaskRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, id int64) (dto.TaskResponse, error)
	Toggle(ctx context.Context, id int64) (dto.TaskResponse, error)
	BulkCreate(ctx context.Context, req dto.BulkCreateTasksRequest) ([]dto.TaskResponse, error)
	BulkDelete(ctx context.Context, req dto.BulkDeleteTasksRequest) (int64, error)
	BulkUpdateCompletion(ctx context.Context, req dto.BulkCompletionRequest) (int64, error)
}

type serviceImpl struct {
	repo repository.Task
	otel otel.Otel
}

func New(repo repository.Task, otel otel.Otel) Task {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTaskRequest) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	id, err := s.repo.InsertReturning(ctx, req.ToModel())
	if err != nil {
		log.Error().Err(err).Msg("failed to create task")

		return res, fmt.Errorf("failed to create task: %w", err)
	}

	// Read back so storage-assigned defaults end up in the response.
	task, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to read back created task")

		return res, fmt.Errorf("failed to read back created task: %w", err)
	}

	res.FromModel(task)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	task, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get task")

		return res, fmt.Errorf("failed to get task: %w", err)
	}

	if task.ID == 0 {
		return res, failure.NotFound("task not found") //nolint:wrapcheck
	}

	res.FromModel(task)

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, skip, limit int, completed *bool) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	if limit <= 0 {
		limit = constant.DefaultValueLimit
	}

	filter := completedFilter(completed)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tasks")

		return res, fmt.Errorf("failed to count tasks: %w", err)
	}

	params := gDto.QueryParams{
		Skip:    skip,
		Limit:   limit,
		SortBy:  constant.DefaultValueSortBy,
		SortDir: constant.DefaultValueSortDir,
	}

	tasks, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tasks")

		return res, fmt.Errorf("failed to get tasks: %w", err)
	}

	res.FromModels(tasks, total, limit)

	return res, nil
}

func (s *serviceImpl) ListCompleted(ctx context.Context, skip, limit int) (dto.GetTasksResponse, error) {
	completed := true

	return s.List(ctx, skip, limit, &completed)
}

func (s *serviceImpl) ListPending(ctx context.Context, skip, limit int) (dto.GetTasksResponse, error) {
	completed := false

	return s.List(ctx, skip, limit, &completed)
}

func (s *serviceImpl) Recent(ctx context.Context, limit int) (dto.GetTasksResponse, error) {
	if limit <= 0 {
		limit = constant.DefaultValueRecentLimit
	}

	return s.List(ctx, 0, limit, nil)
}

func (s *serviceImpl) Count(ctx context.Context, completed *bool) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err = s.repo.Count(ctx, completedFilter(completed))
	if err != nil {
		log.Error().Err(err).Msg("failed to count tasks")

		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return count, nil
}

// Search matches the term as a case-insensitive substring of title or
// description, newest first. A term that trims to empty matches all
// tasks within the limit window.
func (s *serviceImpl) Search(ctx context.Context, term string, limit int) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Search")
	defer scope.End()
	defer scope.TraceIfError(err)

	if limit <= 0 {
		limit = constant.DefaultValueSearchLimit
	}

	filter := gDto.FilterGroup{}

	if term = strings.TrimSpace(term); term != "" {
		filter = gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					ArgName:  "search_title",
					Field:    model.FieldTitle,
					Operator: gDto.FilterOperatorLike,
					Value:    term,
					Table:    model.TableName,
				},
				gDto.Filter{
					ArgName:  "search_description",
					Field:    model.FieldDescription,
					Operator: gDto.FilterOperatorLike,
					Value:    term,
					Table:    model.TableName,
				},
			},
		}
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count matching tasks")

		return res, fmt.Errorf("failed to count matching tasks: %w", err)
	}

	params := gDto.QueryParams{
		Limit:   limit,
		SortBy:  constant.DefaultValueSortBy,
		SortDir: constant.DefaultValueSortDir,
	}

	tasks, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to search tasks")

		return res, fmt.Errorf("failed to search tasks: %w", err)
	}

	res.FromModels(tasks, total, limit)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id int64, req dto.UpdateTaskRequest) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	task, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get task")

		return res, fmt.Errorf("failed to get task: %w", err)
	}

	if task.ID == 0 {
		return res, failure.NotFound("task not found") //nolint:wrapcheck
	}

	if _, err = s.repo.Update(ctx, req.Fields(), filter); err != nil {
		log.Error().Err(err).Msg("failed to update task")

		return res, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to read back updated task")

		return res, fmt.Errorf("failed to read back updated task: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

// Delete removes the task and returns it as it was just before the
// deletion. An id that is already gone surfaces as not found, exactly
// like one that never existed.
func (s *serviceImpl) Delete(ctx context.Context, id int64) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	task, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get task")

		return res, fmt.Errorf("failed to get task: %w", err)
	}

	if task.ID == 0 {
		return res, failure.NotFound("task not found") //nolint:wrapcheck
	}

	if _, err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete task")

		return res, fmt.Errorf("failed to delete task: %w", err)
	}

	res.FromModel(task)

	return res, nil
}

func (s *serviceImpl) Toggle(ctx context.Context, id int64) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Toggle")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	task, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get task")

		return res, fmt.Errorf("failed to get task: %w", err)
	}

	if task.ID == 0 {
		return res, failure.NotFound("task not found") //nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldCompleted: !task.Completed,
		model.FieldUpdatedAt: timezone.Now(),
	}

	if _, err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to toggle task completion")

		return res, fmt.Errorf("failed to toggle task completion: %w", err)
	}

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to read back toggled task")

		return res, fmt.Errorf("failed to read back toggled task: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

// BulkCreate inserts the whole batch atomically and returns the
// created tasks in input order.
func (s *serviceImpl) BulkCreate(ctx context.Context, req dto.BulkCreateTasksRequest) (res []dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BulkCreate")
	defer scope.End()
	defer scope.TraceIfError(err)

	models := make([]model.Task, len(req.Tasks))
	for i, task := range req.Tasks {
		models[i] = task.ToModel()
	}

	ids, err := s.repo.InsertBulk(ctx, models)
	if err != nil {
		log.Error().Err(err).Msg("failed to bulk create tasks")

		return nil, fmt.Errorf("failed to bulk create tasks: %w", err)
	}

	tasks, err := s.repo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByIDs(ids, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to read back created tasks")

		return nil, fmt.Errorf("failed to read back created tasks: %w", err)
	}

	byID := make(map[int64]model.Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}

	res = make([]dto.TaskResponse, len(ids))
	for i, id := range ids {
		res[i].FromModel(byID[id])
	}

	return res, nil
}

func (s *serviceImpl) BulkDelete(ctx context.Context, req dto.BulkDeleteTasksRequest) (affected int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BulkDelete")
	defer scope.End()
	defer scope.TraceIfError(err)

	affected, err = s.repo.Delete(ctx, shared.FilterByIDs(req.IDs, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to bulk delete tasks")

		return 0, fmt.Errorf("failed to bulk delete tasks: %w", err)
	}

	return affected, nil
}

// BulkUpdateCompletion sets completed on every matching row in one
// statement. The bulk path refreshes updated_at the same way the
// single-row path does.
func (s *serviceImpl) BulkUpdateCompletion(ctx context.Context, req dto.BulkCompletionRequest) (affected int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BulkUpdateCompletion")
	defer scope.End()
	defer scope.TraceIfError(err)

	fields := map[string]any{
		model.FieldCompleted: *req.Completed,
		model.FieldUpdatedAt: timezone.Now(),
	}

	affected, err = s.repo.Update(ctx, fields, shared.FilterByIDs(req.IDs, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to bulk update task completion")

		return 0, fmt.Errorf("failed to bulk update task completion: %w", err)
	}

	return affected, nil
}

func completedFilter(completed *bool) gDto.FilterGroup {
	if completed == nil {
		return gDto.FilterGroup{}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCompleted,
				Operator: gDto.FilterOperatorEq,
				Value:    *completed,
				Table:    model.TableName,
			},
		},
	}
}
