// Package app ties the webhook server and the job dispatcher together and
// owns their lifecycle.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/sevigo/review-bot/internal/config"
	"github.com/sevigo/review-bot/internal/jobs"
	"github.com/sevigo/review-bot/internal/server"
)

const shutdownTimeout = 30 * time.Second

// App holds the main application components.
type App struct {
	cfg        *config.Config
	server     *server.Server
	dispatcher *jobs.Dispatcher
	logger     *slog.Logger
}

// NewApp creates the application from its wired components.
func NewApp(cfg *config.Config, srv *server.Server, dispatcher *jobs.Dispatcher, logger *slog.Logger) *App {
	return &App{
		cfg:        cfg,
		server:     srv,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start runs the HTTP server and blocks until it is stopped.
func (a *App) Start() error {
	for _, warning := range a.cfg.Warnings() {
		a.logger.Warn(warning)
	}

	a.logger.Info("starting review bot",
		"server_port", a.cfg.Server.Port,
		"review_mode", a.cfg.ReviewMode,
		"ollama_host", a.cfg.AI.OllamaHost,
		"model", a.cfg.AI.Model,
		"committee_model", a.cfg.AI.CommitteeModel,
		"github_token", a.cfg.GitHub.Token,
		"gitlab_token", a.cfg.GitLab.Token,
	)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly: the server stops taking webhooks
// first, then the dispatcher waits for the running reviews.
func (a *App) Stop() error {
	a.logger.Info("shutting down review bot")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	serverErr := a.server.Stop(ctx)
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.dispatcher.Stop()

	if serverErr != nil {
		return serverErr
	}
	a.logger.Info("review bot stopped successfully")
	return nil
}
