package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/review-bot/mocks"
)

func TestRouter_Health(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewRouter(mocks.NewMockJobDispatcher(ctrl), slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_WebhookRoutes(t *testing.T) {
	paths := []string{
		"/webhook/github",
		"/webhook/gitlab",
		"/api/v1/webhook/github",
		"/api/v1/webhook/gitlab",
	}

	ctrl := gomock.NewController(t)
	r := NewRouter(mocks.NewMockJobDispatcher(ctrl), slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"object_kind": "note"}`))
			req.Header.Set("X-GitHub-Event", "ping")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
		})
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewRouter(mocks.NewMockJobDispatcher(ctrl), slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook/github", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
