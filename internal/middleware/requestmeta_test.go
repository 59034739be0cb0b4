package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/noonesark/splash/internal/handlers"
	"github.com/noonesark/splash/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutput struct {
	Body string `json:"body"`
}

func setupTestAPI(t *testing.T) (*chi.Mux, huma.API) {
	t.Helper()

	router := chi.NewMux()
	router.Use(middleware.RequestMeta)
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))

	return router, api
}

func captureMeta(api huma.API) chan handlers.RequestMeta {
	metaChan := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		metaChan <- handlers.RequestMetaFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	return metaChan
}

func TestRequestMeta(t *testing.T) {
	t.Run("carries user-agent and referrer into the context", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metaChan := captureMeta(api)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")
		req.Header.Set("Referer", "https://example.com")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		meta := <-metaChan
		assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
		assert.Equal(t, "https://example.com", meta.Referrer)
	})

	t.Run("takes the first public IP from X-Forwarded-For", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metaChan := captureMeta(api)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "203.0.113.9", (<-metaChan).ClientIP)
	})

	t.Run("falls back through the header chain", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metaChan := captureMeta(api)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "127.0.0.1:4000"
		req.Header.Set("CF-Connecting-IP", "198.51.100.7")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "198.51.100.7", (<-metaChan).ClientIP)
	})

	t.Run("uses the remote address when no header is usable", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metaChan := captureMeta(api)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "203.0.113.50:51234"
		req.Header.Set("X-Forwarded-For", "127.0.0.1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "203.0.113.50", (<-metaChan).ClientIP)
	})

	t.Run("reports unknown when nothing usable is present", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metaChan := captureMeta(api)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "127.0.0.1:4000"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "unknown", (<-metaChan).ClientIP)
	})
}
