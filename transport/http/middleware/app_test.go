package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"taskboard/config"
	"taskboard/infras/otel/mocks"
	"taskboard/shared/cache"
	cacheMocks "taskboard/shared/cache/mocks"
	"taskboard/shared/constant"
	"taskboard/transport/http/middleware"
)

func newMiddleware(t *testing.T, cfg *config.Config) (*cacheMocks.MockRedisCache, middleware.AppMiddleware) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	return mockCache, middleware.NewAppMiddleware(mocks.NewOtel(), cfg, mockCache)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func limiterConfig(maxRequests int) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = maxRequests
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func TestAppMiddleware_RequestID(t *testing.T) {
	t.Run("generates an id when the client sends none", func(t *testing.T) {
		_, mw := newMiddleware(t, &config.Config{})

		rec := httptest.NewRecorder()
		mw.RequestID(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, rec.Header().Get(constant.RequestHeaderRequestID))
	})

	t.Run("reuses the client's id", func(t *testing.T) {
		_, mw := newMiddleware(t, &config.Config{})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constant.RequestHeaderRequestID, "client-id")

		rec := httptest.NewRecorder()
		mw.RequestID(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, "client-id", rec.Header().Get(constant.RequestHeaderRequestID))
	})
}

func TestAppMiddleware_RateLimit(t *testing.T) {
	t.Run("disabled limiter passes everything through", func(t *testing.T) {
		_, mw := newMiddleware(t, &config.Config{})

		rec := httptest.NewRecorder()
		mw.RateLimit(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("first request starts the counter", func(t *testing.T) {
		mockCache, mw := newMiddleware(t, limiterConfig(5))

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cache.Nil)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), 1, 60).
			Return(nil)

		rec := httptest.NewRecorder()
		mw.RateLimit(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "5", rec.Header().Get(constant.RequestHeaderRateLimit))
		assert.Equal(t, "4", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
	})

	t.Run("over the budget is rejected", func(t *testing.T) {
		mockCache, mw := newMiddleware(t, limiterConfig(5))

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, _ string, value any) error {
				count, ok := value.(*int)
				if ok {
					*count = 5
				}

				return nil
			})

		rec := httptest.NewRecorder()
		mw.RateLimit(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("cache failure never blocks the request", func(t *testing.T) {
		mockCache, mw := newMiddleware(t, limiterConfig(5))

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(assert.AnError)

		rec := httptest.NewRecorder()
		mw.RateLimit(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAppMiddleware_Tracing(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "taskboard"

	_, mw := newMiddleware(t, cfg)

	rec := httptest.NewRecorder()
	mw.Tracing(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
