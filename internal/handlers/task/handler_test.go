package task_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"taskboard/infras/otel/mocks"
	"taskboard/internal/domains/task/model/dto"
	serviceMocks "taskboard/internal/domains/task/service/mocks"
	"taskboard/internal/handlers/task"
)

func newHandler(t *testing.T) (*serviceMocks.MockTask, chi.Router) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := serviceMocks.NewMockTask(ctrl)
	handler := task.New(mockService, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return mockService, router
}

func TestHandler_GetTasks(t *testing.T) {
	mockService, router := newHandler(t)

	mockService.EXPECT().
		List(gomock.Any(), 0, 100, gomock.Nil()).
		Return(dto.GetTasksResponse{
			Tasks: []dto.TaskResponse{
				{ID: 2, Title: "newer"},
				{ID: 1, Title: "older"},
			},
			TotalPage: 1,
			TotalData: 2,
		}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tasks []dto.TaskResponse `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tasks, 2)
	assert.Equal(t, int64(2), body.Tasks[0].ID)
}

func TestHandler_GetTasks_CompletedFilter(t *testing.T) {
	mockService, router := newHandler(t)

	mockService.EXPECT().
		List(gomock.Any(), 0, 100, gomock.Not(gomock.Nil())).
		Return(dto.GetTasksResponse{Tasks: []dto.TaskResponse{}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks?completed=true", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_CreateTask(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(mockService *serviceMocks.MockTask)
		wantStatus int
	}{
		{
			name: "valid request",
			body: `{"title": "Buy milk"}`,
			setupMock: func(mockService *serviceMocks.MockTask) {
				mockService.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(dto.TaskResponse{ID: 1, Title: "Buy milk"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "blank title never reaches the service",
			body:       `{"title": "   "}`,
			setupMock:  func(mockService *serviceMocks.MockTask) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing title never reaches the service",
			body:       `{"description": "no title"}`,
			setupMock:  func(mockService *serviceMocks.MockTask) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"title":`,
			setupMock:  func(mockService *serviceMocks.MockTask) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService, router := newHandler(t)
			tt.setupMock(mockService)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_GetTaskByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockService, router := newHandler(t)

		mockService.EXPECT().
			Get(gomock.Any(), int64(7)).
			Return(dto.TaskResponse{ID: 7, Title: "Buy milk"}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/7", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-numeric id is a bad request", func(t *testing.T) {
		_, router := newHandler(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_UpdateTask(t *testing.T) {
	mockService, router := newHandler(t)

	mockService.EXPECT().
		Update(gomock.Any(), int64(3), gomock.Any()).
		DoAndReturn(func(_ any, _ int64, req dto.UpdateTaskRequest) (dto.TaskResponse, error) {
			require.NotNil(t, req.Title)
			assert.Equal(t, "New title", *req.Title)
			assert.Nil(t, req.Description)
			assert.Nil(t, req.Completed)

			return dto.TaskResponse{ID: 3, Title: "New title"}, nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/tasks/3", strings.NewReader(`{"title": "New title"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_DeleteTask(t *testing.T) {
	mockService, router := newHandler(t)

	mockService.EXPECT().
		Delete(gomock.Any(), int64(4)).
		Return(dto.TaskResponse{ID: 4, Title: "gone"}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/tasks/4", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "gone", body.Title)
}

func TestHandler_ToggleTask(t *testing.T) {
	mockService, router := newHandler(t)

	mockService.EXPECT().
		Toggle(gomock.Any(), int64(9)).
		Return(dto.TaskResponse{ID: 9, Completed: true}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks/9/toggle", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_SearchTasks(t *testing.T) {
	mockService, router := newHandler(t)

	mockService.EXPECT().
		Search(gomock.Any(), "milk", 5).
		Return(dto.GetTasksResponse{Tasks: []dto.TaskResponse{{ID: 1}}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/search?q=milk&limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_BulkCreateTasks(t *testing.T) {
	mockService, router := newHandler(t)

	mockService.EXPECT().
		BulkCreate(gomock.Any(), gomock.Any()).
		Return([]dto.TaskResponse{{ID: 1, Title: "first"}, {ID: 2, Title: "second"}}, nil)

	body := `{"tasks": [{"title": "first"}, {"title": "second"}]}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks/bulk", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandler_BulkCreateTasks_EmptyBatch(t *testing.T) {
	_, router := newHandler(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks/bulk", strings.NewReader(`{"tasks": []}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_BulkDeleteTasks(t *testing.T) {
	mockService, router := newHandler(t)

	mockService.EXPECT().
		BulkDelete(gomock.Any(), gomock.Any()).
		Return(int64(2), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/tasks/bulk", strings.NewReader(`{"ids": [1, 2, 99]}`)))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body dto.BulkCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Affected)
}

func TestHandler_BulkUpdateCompletion(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		mockService, router := newHandler(t)

		mockService.EXPECT().
			BulkUpdateCompletion(gomock.Any(), gomock.Any()).
			Return(int64(3), nil)

		body := `{"ids": [1, 2, 3], "completed": false}`

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/tasks/bulk/completion", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing completed flag is rejected", func(t *testing.T) {
		_, router := newHandler(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/tasks/bulk/completion", strings.NewReader(`{"ids": [1]}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
