package dto

import (
	"time"

	"taskboard/internal/domains/task/model"
	"taskboard/shared"
	"taskboard/shared/constant"
	"taskboard/shared/timezone"
)

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Completed   bool    `json:"completed"`
}

func (c *CreateTaskRequest) ToModel() model.Task {
	return model.Task{
		Title:       c.Title,
		Description: c.Description,
		Completed:   c.Completed,
	}
}

// TaskForm carries the same fields as CreateTaskRequest but is
// populated from form-encoded submissions instead of a JSON body.
// Validation rules are identical.
type TaskForm struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Completed   bool    `json:"completed"`
}

func (f *TaskForm) ToCreateRequest() CreateTaskRequest {
	return CreateTaskRequest{
		Title:       f.Title,
		Description: f.Description,
		Completed:   f.Completed,
	}
}

// ToUpdateRequest turns the form into a patch that supplies every
// field. Forms always carry the full task, so a form edit replaces the
// description even when it was cleared.
func (f *TaskForm) ToUpdateRequest() UpdateTaskRequest {
	return UpdateTaskRequest{
		Title:       &f.Title,
		Description: f.Description,
		Completed:   &f.Completed,
	}
}

// UpdateTaskRequest is a field-presence-sensitive patch. A nil pointer
// means "leave the prior value unchanged"; a non-nil pointer always
// overwrites, even with an empty string or false.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Completed   *bool   `json:"completed"`
}

// IsEmpty reports whether the patch supplies no fields at all.
func (u *UpdateTaskRequest) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}

// Fields maps the supplied fields onto their columns and stamps
// updated_at. Omitted fields never make it into the map, which is what
// keeps the update partial.
func (u *UpdateTaskRequest) Fields() map[string]any {
	fields := map[string]any{}

	if u.Title != nil {
		fields[model.FieldTitle] = *u.Title
	}

	if u.Description != nil {
		fields[model.FieldDescription] = *u.Description
	}

	if u.Completed != nil {
		fields[model.FieldCompleted] = *u.Completed
	}

	fields[model.FieldUpdatedAt] = timezone.Now()

	return fields
}

type BulkCreateTasksRequest struct {
	Tasks []CreateTaskRequest `json:"tasks" validate:"required,min=1,dive"`
}

type BulkDeleteTasksRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

type BulkCompletionRequest struct {
	IDs       []int64 `json:"ids" validate:"required,min=1"`
	Completed *bool   `json:"completed" validate:"required"`
}

type TaskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

func (r *TaskResponse) FromModel(model model.Task) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.Completed = model.Completed
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	r.UpdatedAt = formatOptional(model.UpdatedAt)
}

type GetTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetTasksResponse) FromModels(models []model.Task, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tasks = make([]TaskResponse, len(models))
	for i, mod := range models {
		r.Tasks[i].FromModel(mod)
	}
}

type BulkCountResponse struct {
	Affected int64 `json:"affected"`
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}
