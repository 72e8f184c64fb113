package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"taskboard/infras/otel/mocks"
	taskMocks "taskboard/internal/domains/task/mocks"
	"taskboard/internal/domains/task/model"
	"taskboard/internal/domains/task/model/dto"
	"taskboard/internal/domains/task/service"
	"taskboard/shared/constant"
	gDto "taskboard/shared/dto"
	"taskboard/shared/failure"
)

func newService(t *testing.T) (*taskMocks.MockTask, service.Task) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := taskMocks.NewMockTask(ctrl)

	return mockRepo, service.New(mockRepo, mocks.NewOtel())
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func sampleTask(id int64) model.Task {
	return model.Task{
		ID:        id,
		Title:     "Buy milk",
		Completed: false,
		CreatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestTaskService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateTaskRequest
		setupMock func(mockRepo *taskMocks.MockTask)
		wantErr   bool
	}{
		{
			name: "successful creation reads back storage defaults",
			req: dto.CreateTaskRequest{
				Title:       "Buy milk",
				Description: strPtr("two liters"),
			},
			setupMock: func(mockRepo *taskMocks.MockTask) {
				mockRepo.EXPECT().
					InsertReturning(gomock.Any(), gomock.Any()).
					Return(int64(7), nil)

				created := sampleTask(7)
				created.Description = strPtr("two liters")

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(created, nil)
			},
			wantErr: false,
		},
		{
			name: "repository error",
			req: dto.CreateTaskRequest{
				Title: "Buy milk",
			},
			setupMock: func(mockRepo *taskMocks.MockTask) {
				mockRepo.EXPECT().
					InsertReturning(gomock.Any(), gomock.Any()).
					Return(int64(0), errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo, svc := newService(t)
			tt.setupMock(mockRepo)

			res, err := svc.Create(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(7), res.ID)
			assert.Equal(t, "Buy milk", res.Title)
			assert.NotEmpty(t, res.CreatedAt)
			assert.Nil(t, res.UpdatedAt)
		})
	}
}

func TestTaskService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mockRepo *taskMocks.MockTask)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func(mockRepo *taskMocks.MockTask) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sampleTask(1), nil)
			},
		},
		{
			name: "absent id maps to not found",
			setupMock: func(mockRepo *taskMocks.MockTask) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Task{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			setupMock: func(mockRepo *taskMocks.MockTask) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Task{}, errors.New("database error"))
			},
			wantErr:  true,
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo, svc := newService(t)
			tt.setupMock(mockRepo)

			res, err := svc.Get(context.Background(), 1)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), res.ID)
		})
	}
}

func TestTaskService_List(t *testing.T) {
	t.Run("orders newest first with default limit", func(t *testing.T) {
		mockRepo, svc := newService(t)

		newer := sampleTask(2)
		newer.CreatedAt = newer.CreatedAt.Add(time.Hour)
		older := sampleTask(1)

		mockRepo.EXPECT().
			Count(gomock.Any(), gDto.FilterGroup{}).
			Return(2, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gDto.FilterGroup{}).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Task, error) {
				assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)
				assert.Equal(t, constant.DefaultValueSortDir, params.SortDir)
				assert.Equal(t, constant.DefaultValueLimit, params.Limit)
				assert.Equal(t, 0, params.Skip)

				return []model.Task{newer, older}, nil
			})

		res, err := svc.List(context.Background(), 0, 0, nil)

		require.NoError(t, err)
		require.Len(t, res.Tasks, 2)
		assert.Equal(t, int64(2), res.Tasks[0].ID)
		assert.Equal(t, int64(1), res.Tasks[1].ID)
		assert.Equal(t, 2, res.TotalData)
	})

	t.Run("completion filter narrows the query", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				require.Len(t, filter.Filters, 1)
				assert.Equal(t, gDto.FilterGroupOperatorAnd, filter.Operator)

				return 1, nil
			})

		done := sampleTask(3)
		done.Completed = true

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Task{done}, nil)

		res, err := svc.List(context.Background(), 0, 10, boolPtr(true))

		require.NoError(t, err)
		require.Len(t, res.Tasks, 1)
		assert.True(t, res.Tasks[0].Completed)
	})

	t.Run("count error", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(0, errors.New("database error"))

		_, err := svc.List(context.Background(), 0, 10, nil)

		assert.Error(t, err)
	})
}

func TestTaskService_Count(t *testing.T) {
	mockRepo, svc := newService(t)

	mockRepo.EXPECT().
		Count(gomock.Any(), gDto.FilterGroup{}).
		Return(3, nil)

	count, err := svc.Count(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTaskService_Search(t *testing.T) {
	t.Run("matches title or description case-insensitively", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Equal(t, gDto.FilterGroupOperatorOr, filter.Operator)
				require.Len(t, filter.Filters, 2)

				title, ok := filter.Filters[0].(gDto.Filter)
				require.True(t, ok)
				assert.Equal(t, gDto.FilterOperatorLike, title.Operator)
				assert.Equal(t, "milk", title.Value)

				return 1, nil
			})

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Task, error) {
				assert.Equal(t, constant.DefaultValueSearchLimit, params.Limit)

				return []model.Task{sampleTask(1)}, nil
			})

		res, err := svc.Search(context.Background(), "  milk  ", 0)

		require.NoError(t, err)
		assert.Len(t, res.Tasks, 1)
	})

	t.Run("blank term matches everything", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			Count(gomock.Any(), gDto.FilterGroup{}).
			Return(2, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gDto.FilterGroup{}).
			Return([]model.Task{sampleTask(2), sampleTask(1)}, nil)

		res, err := svc.Search(context.Background(), "   ", 0)

		require.NoError(t, err)
		assert.Len(t, res.Tasks, 2)
	})
}

func TestTaskService_Update(t *testing.T) {
	t.Run("empty patch is rejected before touching the repository", func(t *testing.T) {
		_, svc := newService(t)

		_, err := svc.Update(context.Background(), 1, dto.UpdateTaskRequest{})

		require.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("absent task maps to not found", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Task{}, nil)

		_, err := svc.Update(context.Background(), 1, dto.UpdateTaskRequest{Title: strPtr("New")})

		require.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("partial patch only touches supplied fields", func(t *testing.T) {
		mockRepo, svc := newService(t)

		current := sampleTask(1)
		current.Description = strPtr("keep me")

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(current, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Contains(t, fields, model.FieldTitle)
				assert.Contains(t, fields, model.FieldUpdatedAt)
				assert.NotContains(t, fields, model.FieldDescription)
				assert.NotContains(t, fields, model.FieldCompleted)

				return 1, nil
			})

		updated := current
		updated.Title = "New title"
		now := time.Now()
		updated.UpdatedAt = &now

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(updated, nil)

		res, err := svc.Update(context.Background(), 1, dto.UpdateTaskRequest{Title: strPtr("New title")})

		require.NoError(t, err)
		assert.Equal(t, "New title", res.Title)
		require.NotNil(t, res.Description)
		assert.Equal(t, "keep me", *res.Description)
		assert.NotNil(t, res.UpdatedAt)
	})

	t.Run("full patch replaces every field", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(sampleTask(1), nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Contains(t, fields, model.FieldTitle)
				assert.Contains(t, fields, model.FieldDescription)
				assert.Contains(t, fields, model.FieldCompleted)

				return 1, nil
			})

		replaced := sampleTask(1)
		replaced.Title = "Replaced"
		replaced.Description = strPtr("new text")
		replaced.Completed = true

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(replaced, nil)

		res, err := svc.Update(context.Background(), 1, dto.UpdateTaskRequest{
			Title:       strPtr("Replaced"),
			Description: strPtr("new text"),
			Completed:   boolPtr(true),
		})

		require.NoError(t, err)
		assert.Equal(t, "Replaced", res.Title)
		assert.True(t, res.Completed)
	})
}

func TestTaskService_Delete(t *testing.T) {
	t.Run("returns the task as it was before deletion", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(sampleTask(5), nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(int64(1), nil)

		res, err := svc.Delete(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, int64(5), res.ID)
		assert.Equal(t, "Buy milk", res.Title)
	})

	t.Run("deleting an absent task is not found every time", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Task{}, nil).
			Times(2)

		for range 2 {
			_, err := svc.Delete(context.Background(), 99)

			require.Error(t, err)
			assert.Equal(t, 404, failure.GetCode(err))
		}
	})
}

func TestTaskService_Toggle(t *testing.T) {
	t.Run("toggling twice restores the original flag", func(t *testing.T) {
		mockRepo, svc := newService(t)

		state := sampleTask(1)

		for _, want := range []bool{true, false} {
			current := state
			current.Completed = !want

			mockRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(current, nil)

			mockRepo.EXPECT().
				Update(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
					assert.Equal(t, want, fields[model.FieldCompleted])
					assert.Contains(t, fields, model.FieldUpdatedAt)

					return 1, nil
				})

			toggled := current
			toggled.Completed = want

			mockRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(toggled, nil)

			res, err := svc.Toggle(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, want, res.Completed)
		}
	})

	t.Run("absent task maps to not found", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Task{}, nil)

		_, err := svc.Toggle(context.Background(), 42)

		require.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestTaskService_BulkCreate(t *testing.T) {
	t.Run("responses come back in input order", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			InsertBulk(gomock.Any(), gomock.Any()).
			Return([]int64{11, 12}, nil)

		first := sampleTask(11)
		first.Title = "first"
		second := sampleTask(12)
		second.Title = "second"

		// Read-back order is whatever the database returns; the
		// service must restore the input order.
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Task{second, first}, nil)

		res, err := svc.BulkCreate(context.Background(), dto.BulkCreateTasksRequest{
			Tasks: []dto.CreateTaskRequest{
				{Title: "first"},
				{Title: "second"},
			},
		})

		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, "first", res[0].Title)
		assert.Equal(t, "second", res[1].Title)
	})

	t.Run("insert failure creates nothing", func(t *testing.T) {
		mockRepo, svc := newService(t)

		mockRepo.EXPECT().
			InsertBulk(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("constraint violation"))

		_, err := svc.BulkCreate(context.Background(), dto.BulkCreateTasksRequest{
			Tasks: []dto.CreateTaskRequest{{Title: "doomed"}},
		})

		assert.Error(t, err)
	})
}

func TestTaskService_BulkDelete(t *testing.T) {
	mockRepo, svc := newService(t)

	// Two of the three requested ids exist.
	mockRepo.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(int64(2), nil)

	affected, err := svc.BulkDelete(context.Background(), dto.BulkDeleteTasksRequest{IDs: []int64{1, 2, 99}})

	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}

func TestTaskService_BulkUpdateCompletion(t *testing.T) {
	mockRepo, svc := newService(t)

	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
			assert.Equal(t, true, fields[model.FieldCompleted])
			assert.Contains(t, fields, model.FieldUpdatedAt)

			return 3, nil
		})

	affected, err := svc.BulkUpdateCompletion(context.Background(), dto.BulkCompletionRequest{
		IDs:       []int64{1, 2, 3},
		Completed: boolPtr(true),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
}
