package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/review-bot/internal/core"
	"github.com/sevigo/review-bot/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and webhook routes.
func NewRouter(dispatcher core.JobDispatcher, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	webhookHandler := handler.NewWebhookHandler(dispatcher, logger)
	webhooks := func(r chi.Router) {
		r.Post("/webhook/github", webhookHandler.HandleGitHub)
		r.Post("/webhook/gitlab", webhookHandler.HandleGitLab)
	}

	webhooks(r)
	r.Route("/api/v1", webhooks)

	return r
}
