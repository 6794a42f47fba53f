package middleware_test

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Totarae/LinkBoard/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Каждый запрос получает идентификатор, и он доступен обработчику
func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	middleware.RequestIDMiddleware(next).ServeHTTP(w, req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(middleware.RequestIDHeader))
}

// Переданный клиентом идентификатор сохраняется
func TestRequestIDMiddleware_Passthrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "my-id")
	w := httptest.NewRecorder()
	middleware.RequestIDMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, "my-id", w.Header().Get(middleware.RequestIDHeader))
}

func TestGzipMiddleware_CompressesResponse(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hello":"world"}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	middleware.GzipMiddleware(next).ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, string(body))
}

func TestGzipMiddleware_NoAcceptEncoding(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	middleware.GzipMiddleware(next).ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Content-Encoding"))
	assert.Equal(t, "plain", w.Body.String())
}

type pageRendererStub struct{ called bool }

func (p *pageRendererStub) ErrorPage(w http.ResponseWriter, status int, message string) {
	p.called = true
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// Паника на странице — HTML через рендерер
func TestRecoveryMiddleware_Page(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	stub := &pageRendererStub{}
	req := httptest.NewRequest(http.MethodGet, "/code/Ab3dE9", nil)
	w := httptest.NewRecorder()
	middleware.RecoveryMiddleware(zap.NewNop(), stub)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, stub.called)
}

// Паника на API-пути — JSON без рендерера
func TestRecoveryMiddleware_API(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	stub := &pageRendererStub{}
	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	w := httptest.NewRecorder()
	middleware.RecoveryMiddleware(zap.NewNop(), stub)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, stub.called)
	assert.Contains(t, w.Body.String(), "internal server error")
}
