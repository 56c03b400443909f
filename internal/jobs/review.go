package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/review-bot/internal/config"
	"github.com/sevigo/review-bot/internal/core"
	"github.com/sevigo/review-bot/internal/llm"
)

const reviewHeader = "Code Review Bot says:\n\n"

var errEmptyReview = errors.New("model returned an empty review")

// ReviewJob asks a single model for a review of the change request and posts
// the answer as one comment.
type ReviewJob struct {
	cfg       *config.Config
	platforms core.PlatformResolver
	generator llm.Generator
	prompts   *llm.PromptManager
	logger    *slog.Logger
}

var _ core.Job = (*ReviewJob)(nil)

// NewReviewJob creates a ReviewJob.
func NewReviewJob(cfg *config.Config, platforms core.PlatformResolver, generator llm.Generator, prompts *llm.PromptManager, logger *slog.Logger) *ReviewJob {
	return &ReviewJob{
		cfg:       cfg,
		platforms: platforms,
		generator: generator,
		prompts:   prompts,
		logger:    logger,
	}
}

// Run fetches the diff, generates the review and publishes it. A blank diff
// ends the job without calling the model.
func (j *ReviewJob) Run(ctx context.Context, event *core.ChangeRequestEvent) error {
	logger := j.logger.With("platform", event.Platform, "repo", event.RepoFullName, "number", event.Number)

	platform, err := j.platforms.ForEvent(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to resolve platform: %w", err)
	}

	diff, err := platform.FetchDiff(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to fetch diff: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		logger.Info("diff is empty, nothing to review")
		return nil
	}

	prompt, err := j.prompts.Render(llm.ReviewPrompt, llm.DefaultProvider, llm.PromptData{Diff: diff})
	if err != nil {
		return fmt.Errorf("failed to render review prompt: %w", err)
	}

	logger.Info("generating review", "model", j.cfg.AI.Model, "diff_bytes", len(diff))
	review, err := j.generator.Generate(ctx, llm.Request{
		Model:  j.cfg.AI.Model,
		Prompt: prompt,
		Stream: j.cfg.AI.Stream,
	})
	if err != nil {
		return fmt.Errorf("failed to generate review: %w", err)
	}
	if strings.TrimSpace(review) == "" {
		return errEmptyReview
	}

	if err := platform.PublishComment(ctx, event, reviewHeader+review); err != nil {
		return fmt.Errorf("failed to publish review: %w", err)
	}
	logger.Info("review published")
	return nil
}
