// Package gitlab adapts GitLab merge requests to the review pipeline.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/sevigo/review-bot/internal/core"
)

var errMissingChanges = errors.New(`response has no "changes" field`)

// Adapter implements core.Platform for GitLab merge requests.
type Adapter struct {
	client *gitlab.Client
	logger *slog.Logger
}

var _ core.Platform = (*Adapter)(nil)

// NewAdapter creates an adapter for the GitLab instance at baseURL
// (for example https://gitlab.com). Requests are authenticated with the
// PRIVATE-TOKEN header and are never retried.
func NewAdapter(token, baseURL string, httpClient *http.Client, logger *slog.Logger) (*Adapter, error) {
	opts := []gitlab.ClientOptionFunc{
		gitlab.WithBaseURL(baseURL),
		gitlab.WithCustomRetryMax(0),
	}
	if httpClient != nil {
		opts = append(opts, gitlab.WithHTTPClient(httpClient))
	}

	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client for %s: %w", baseURL, err)
	}
	return &Adapter{client: client, logger: logger}, nil
}

func (a *Adapter) Name() string { return core.PlatformGitLab }

// FetchDiff loads the merge request changes and joins the per-file diffs with
// newlines, in the order GitLab lists them.
func (a *Adapter) FetchDiff(ctx context.Context, event *core.ChangeRequestEvent) (string, error) {
	//nolint:staticcheck // the changes endpoint returns every file diff in a single call
	mr, resp, err := a.client.MergeRequests.GetMergeRequestChanges(event.ProjectID, event.Number, nil, gitlab.WithContext(ctx))
	if err != nil {
		a.logger.Error("failed to get merge request changes", "project", event.ProjectID, "mr", event.Number, "error", err)
		status, msg := responseStatus(resp, err)
		return "", &core.FetchError{Platform: core.PlatformGitLab, StatusCode: status, Body: msg, Err: err}
	}
	if mr == nil || mr.Changes == nil {
		return "", &core.FetchError{Platform: core.PlatformGitLab, Err: errMissingChanges}
	}

	diffs := make([]string, 0, len(mr.Changes))
	for _, change := range mr.Changes {
		diffs = append(diffs, change.Diff)
	}
	return strings.Join(diffs, "\n"), nil
}

// PublishComment posts body as a note on the merge request.
func (a *Adapter) PublishComment(ctx context.Context, event *core.ChangeRequestEvent, body string) error {
	opts := &gitlab.CreateMergeRequestNoteOptions{Body: gitlab.Ptr(body)}
	_, resp, err := a.client.Notes.CreateMergeRequestNote(event.ProjectID, event.Number, opts, gitlab.WithContext(ctx))
	if err != nil {
		a.logger.Error("failed to create merge request note", "project", event.ProjectID, "mr", event.Number, "error", err)
		status, msg := responseStatus(resp, err)
		return &core.PublishError{Platform: core.PlatformGitLab, StatusCode: status, Body: msg, Err: err}
	}
	return nil
}

// responseStatus takes a non-2xx status from the API response. client-go
// returns bare sentinels such as gitlab.ErrNotFound for some statuses, so the
// error only supplies the message. Decoding failures on a 2xx carry no status.
func responseStatus(resp *gitlab.Response, err error) (int, string) {
	status := 0
	if resp != nil && resp.Response != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		status = resp.StatusCode
	}

	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) {
		if status == 0 && errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
		return status, errResp.Message
	}
	if status != 0 {
		return status, err.Error()
	}
	return 0, ""
}
