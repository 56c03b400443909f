// Package handler provides HTTP handlers for the review bot.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/sevigo/review-bot/internal/core"
)

const (
	maxPayloadBytes   = 25 << 20
	pullRequestEvent  = "pull_request"
	mergeRequestKind  = "merge_request"
	acknowledgedReply = `{"status": "ok"}`
)

// WebhookHandler turns GitHub and GitLab webhooks into review jobs. Every
// request is acknowledged with 200, including ignored and malformed events;
// failures are only logged.
type WebhookHandler struct {
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given dispatcher.
func NewWebhookHandler(dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// HandleGitHub processes GitHub pull_request webhooks.
func (h *WebhookHandler) HandleGitHub(w http.ResponseWriter, r *http.Request) {
	defer acknowledge(w)

	eventType := github.WebHookType(r)
	if eventType != pullRequestEvent {
		h.logger.Debug("ignoring unhandled webhook event type", "platform", core.PlatformGitHub, "type", eventType)
		return
	}

	payload, err := readPayload(w, r)
	if err != nil {
		h.logger.Error("could not read webhook payload", "platform", core.PlatformGitHub, "error", err)
		return
	}

	parsed, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		h.logger.Error("could not parse webhook", "platform", core.PlatformGitHub, "error", err)
		return
	}
	prEvent, ok := parsed.(*github.PullRequestEvent)
	if !ok {
		h.logger.Error("unexpected webhook payload", "platform", core.PlatformGitHub, "type", fmt.Sprintf("%T", parsed))
		return
	}

	event, err := core.EventFromPullRequest(prEvent)
	h.dispatch(r.Context(), core.PlatformGitHub, event, err)
}

// HandleGitLab processes GitLab merge request webhooks.
func (h *WebhookHandler) HandleGitLab(w http.ResponseWriter, r *http.Request) {
	defer acknowledge(w)

	payload, err := readPayload(w, r)
	if err != nil {
		h.logger.Error("could not read webhook payload", "platform", core.PlatformGitLab, "error", err)
		return
	}

	var kind struct {
		ObjectKind string `json:"object_kind"`
	}
	if err := json.Unmarshal(payload, &kind); err != nil {
		h.logger.Error("could not parse webhook", "platform", core.PlatformGitLab, "error", err)
		return
	}
	if kind.ObjectKind != mergeRequestKind {
		h.logger.Debug("ignoring unhandled webhook object kind", "platform", core.PlatformGitLab, "object_kind", kind.ObjectKind)
		return
	}

	parsed, err := gitlab.ParseWebhook(gitlab.EventTypeMergeRequest, payload)
	if err != nil {
		h.logger.Error("could not parse webhook", "platform", core.PlatformGitLab, "error", err)
		return
	}
	mrEvent, ok := parsed.(*gitlab.MergeEvent)
	if !ok {
		h.logger.Error("unexpected webhook payload", "platform", core.PlatformGitLab, "type", fmt.Sprintf("%T", parsed))
		return
	}

	event, err := core.EventFromMergeRequest(mrEvent)
	h.dispatch(r.Context(), core.PlatformGitLab, event, err)
}

func (h *WebhookHandler) dispatch(ctx context.Context, platform string, event *core.ChangeRequestEvent, convErr error) {
	if errors.Is(convErr, core.ErrEventIgnored) {
		h.logger.Debug("ignoring webhook event", "platform", platform, "reason", convErr.Error())
		return
	}
	if convErr != nil {
		h.logger.Warn("malformed webhook event", "platform", platform, "error", convErr)
		return
	}

	if err := h.dispatcher.Dispatch(ctx, event); err != nil {
		h.logger.Error("failed to dispatch review job", "platform", platform, "repo", event.RepoFullName, "error", err)
		return
	}
	h.logger.Info("review job dispatched", "platform", platform, "repo", event.RepoFullName, "number", event.Number)
}

func readPayload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	defer body.Close()
	return io.ReadAll(body)
}

func acknowledge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, acknowledgedReply)
}
