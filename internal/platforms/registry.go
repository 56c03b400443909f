// Package platforms selects the hosting-platform adapter that serves a
// change-request event.
package platforms

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sevigo/review-bot/internal/config"
	"github.com/sevigo/review-bot/internal/core"
	"github.com/sevigo/review-bot/internal/github"
	"github.com/sevigo/review-bot/internal/gitlab"
	"github.com/sevigo/review-bot/internal/gitutil"
)

// gitLabAPITimeout bounds one GitLab REST call. It is independent of the
// model timeout.
const gitLabAPITimeout = 30 * time.Second

// Registry implements core.PlatformResolver. The GitHub token client is
// shared by all events; App installation clients and GitLab clients are built
// per event because they depend on the payload.
type Registry struct {
	cfg        *config.Config
	github     github.Client
	httpClient *http.Client
	logger     *slog.Logger
}

var _ core.PlatformResolver = (*Registry)(nil)

// NewRegistry creates a resolver from the static platform settings.
func NewRegistry(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	ghClient, err := github.NewPATClient(cfg.GitHub.Token.Reveal(), cfg.GitHub.APIURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return &Registry{
		cfg:        cfg,
		github:     ghClient,
		httpClient: &http.Client{Timeout: gitLabAPITimeout},
		logger:     logger,
	}, nil
}

// ForEvent returns the adapter for the platform the event came from.
func (r *Registry) ForEvent(_ context.Context, event *core.ChangeRequestEvent) (core.Platform, error) {
	switch event.Platform {
	case core.PlatformGitHub:
		return r.gitHub(event)
	case core.PlatformGitLab:
		return r.gitLab(event)
	default:
		return nil, fmt.Errorf("unsupported platform %q", event.Platform)
	}
}

func (r *Registry) gitHub(event *core.ChangeRequestEvent) (core.Platform, error) {
	if r.cfg.GitHub.UsesApp() && event.InstallationID != 0 {
		client, err := github.NewInstallationClient(
			r.cfg.GitHub.AppID,
			event.InstallationID,
			r.cfg.GitHub.PrivateKeyPath,
			r.cfg.GitHub.APIURL,
			r.logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub installation client: %w", err)
		}
		return github.NewAdapter(client, r.cfg.GitHub.Surface, r.logger), nil
	}
	return github.NewAdapter(r.github, r.cfg.GitHub.Surface, r.logger), nil
}

func (r *Registry) gitLab(event *core.ChangeRequestEvent) (core.Platform, error) {
	baseURL := r.cfg.GitLab.BaseURL
	if baseURL == "" {
		instance, err := gitutil.InstanceURL(event.ProjectWebURL)
		if err != nil {
			return nil, fmt.Errorf("failed to derive GitLab instance: %w", err)
		}
		baseURL = instance
	}
	r.logger.Debug("using GitLab instance", "base_url", baseURL, "project_id", event.ProjectID)
	return gitlab.NewAdapter(r.cfg.GitLab.Token.Reveal(), baseURL, r.httpClient, r.logger)
}
