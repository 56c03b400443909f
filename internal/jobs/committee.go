package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/review-bot/internal/config"
	"github.com/sevigo/review-bot/internal/core"
	"github.com/sevigo/review-bot/internal/llm"
)

const (
	committeeHeader   = "### 🤖 AI Review Committee Analysis\n\n"
	committeeApproval = "🤖 AI Review Committee: All checks passed. Looks good to me! 👍"
	noIssuesMarker    = "no issues found"
)

// Committee consults each persona in order and merges the useful answers into
// a single comment.
type Committee struct {
	personas  []core.Persona
	generator llm.Generator
	prompts   *llm.PromptManager
	model     string
	options   llm.Options
	logger    *slog.Logger
}

// NewCommittee creates a Committee from the configured personas and model
// settings.
func NewCommittee(cfg *config.Config, generator llm.Generator, prompts *llm.PromptManager, logger *slog.Logger) *Committee {
	return &Committee{
		personas:  cfg.Personas,
		generator: generator,
		prompts:   prompts,
		model:     cfg.AI.CommitteeModel,
		options:   llm.Options{Temperature: cfg.AI.Temperature, TopP: cfg.AI.TopP},
		logger:    logger,
	}
}

// Review returns the committee comment for diff. A persona whose model call
// fails contributes an error placeholder instead of aborting the review.
func (c *Committee) Review(ctx context.Context, diff string) (string, error) {
	prompt, err := c.prompts.Render(llm.CommitteePrompt, llm.DefaultProvider, llm.PromptData{Diff: diff})
	if err != nil {
		return "", fmt.Errorf("failed to render committee prompt: %w", err)
	}

	var feedback []core.Feedback
	for _, persona := range c.personas {
		c.logger.Info("consulting persona", "persona", persona.Name, "model", c.model)

		opts := c.options
		body, err := c.generator.Generate(ctx, llm.Request{
			Model:   c.model,
			Prompt:  prompt,
			System:  persona.Instructions,
			Options: &opts,
		})
		if err != nil {
			c.logger.Warn("persona review failed", "persona", persona.Name, "error", err)
			feedback = append(feedback, core.Feedback{
				Persona: persona,
				Body:    fmt.Sprintf("Could not get a review. Error: %v", err),
			})
			continue
		}

		body = strings.TrimSpace(body)
		if body == "" || strings.Contains(strings.ToLower(body), noIssuesMarker) {
			c.logger.Info("persona found no issues", "persona", persona.Name)
			continue
		}
		feedback = append(feedback, core.Feedback{Persona: persona, Body: body})
	}

	return FormatCommitteeComment(feedback), nil
}

// FormatCommitteeComment renders the retained feedback in persona order, or
// the approval message when nothing was retained.
func FormatCommitteeComment(feedback []core.Feedback) string {
	if len(feedback) == 0 {
		return committeeApproval
	}

	var sb strings.Builder
	sb.WriteString(committeeHeader)
	for _, f := range feedback {
		fmt.Fprintf(&sb, "#### %s %s's Feedback\n%s\n\n", f.Persona.Icon, f.Persona.Name, f.Body)
	}
	return sb.String()
}

// CommitteeJob runs the persona committee for a webhook event.
type CommitteeJob struct {
	platforms core.PlatformResolver
	committee *Committee
	logger    *slog.Logger
}

var _ core.Job = (*CommitteeJob)(nil)

func NewCommitteeJob(platforms core.PlatformResolver, committee *Committee, logger *slog.Logger) *CommitteeJob {
	return &CommitteeJob{platforms: platforms, committee: committee, logger: logger}
}

// Run fetches the diff, collects the committee's feedback and posts it.
func (j *CommitteeJob) Run(ctx context.Context, event *core.ChangeRequestEvent) error {
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

	comment, err := j.committee.Review(ctx, diff)
	if err != nil {
		return err
	}

	if err := platform.PublishComment(ctx, event, comment); err != nil {
		return fmt.Errorf("failed to publish committee review: %w", err)
	}
	logger.Info("committee review published")
	return nil
}
