package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	taskMocks "taskboard/internal/domains/task/mocks"
	"taskboard/internal/handlers/health"
)

func newHandler(t *testing.T) (*taskMocks.MockTask, chi.Router) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := taskMocks.NewMockTask(ctrl)
	handler := health.New(mockRepo)

	router := chi.NewRouter()
	handler.Router(router)

	return mockRepo, router
}

func TestHandler_Health(t *testing.T) {
	t.Run("healthy when the database answers", func(t *testing.T) {
		mockRepo, router := newHandler(t)

		mockRepo.EXPECT().
			Ping(gomock.Any()).
			Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "connected", body["database"])
	})

	t.Run("unhealthy when the database is down", func(t *testing.T) {
		mockRepo, router := newHandler(t)

		mockRepo.EXPECT().
			Ping(gomock.Any()).
			Return(assert.AnError)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body["status"])
		assert.Equal(t, "disconnected", body["database"])
	})
}

func TestHandler_Info(t *testing.T) {
	_, router := newHandler(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "taskboard", body["service"])
}
