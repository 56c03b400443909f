package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/review-bot/internal/config"
	"github.com/sevigo/review-bot/internal/core"
)

// Adapter implements core.Platform for GitHub pull requests.
type Adapter struct {
	client  Client
	surface string
	logger  *slog.Logger
}

var _ core.Platform = (*Adapter)(nil)

// NewAdapter returns a GitHub platform adapter. surface selects whether
// feedback is posted as a pull request review or as an issue comment.
func NewAdapter(client Client, surface string, logger *slog.Logger) *Adapter {
	return &Adapter{client: client, surface: surface, logger: logger}
}

func (a *Adapter) Name() string { return core.PlatformGitHub }

// FetchDiff returns the unified diff of the pull request.
func (a *Adapter) FetchDiff(ctx context.Context, event *core.ChangeRequestEvent) (string, error) {
	diff, err := a.client.GetPullRequestDiff(ctx, event.RepoOwner, event.RepoName, event.Number)
	if err != nil {
		status, msg := responseStatus(err)
		return "", &core.FetchError{Platform: core.PlatformGitHub, StatusCode: status, Body: msg, Err: err}
	}
	return diff, nil
}

// PublishComment posts body on the pull request. Reviews are pinned to the
// head commit from the event, or to the latest commit when the event has none.
func (a *Adapter) PublishComment(ctx context.Context, event *core.ChangeRequestEvent, body string) error {
	if a.surface == config.SurfaceComment {
		a.logger.Debug("posting pull request comment", "repo", event.RepoFullName, "pr", event.Number)
		if err := a.client.CreateComment(ctx, event.RepoOwner, event.RepoName, event.Number, body); err != nil {
			return publishError(err)
		}
		return nil
	}

	commitID := event.HeadSHA
	if commitID == "" {
		sha, err := a.client.GetLatestCommitSHA(ctx, event.RepoOwner, event.RepoName, event.Number)
		if err != nil {
			return publishError(fmt.Errorf("resolving latest commit: %w", err))
		}
		commitID = sha
	}

	a.logger.Debug("posting pull request review", "repo", event.RepoFullName, "pr", event.Number, "commit", commitID)
	if err := a.client.CreateReview(ctx, event.RepoOwner, event.RepoName, event.Number, commitID, body); err != nil {
		return publishError(err)
	}
	return nil
}

func publishError(err error) error {
	status, msg := responseStatus(err)
	return &core.PublishError{Platform: core.PlatformGitHub, StatusCode: status, Body: msg, Err: err}
}
