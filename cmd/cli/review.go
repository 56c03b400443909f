package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/review-bot/internal/config"
	"github.com/sevigo/review-bot/internal/core"
	"github.com/sevigo/review-bot/internal/github"
	"github.com/sevigo/review-bot/internal/gitutil"
	"github.com/sevigo/review-bot/internal/jobs"
	"github.com/sevigo/review-bot/internal/llm"
	"github.com/sevigo/review-bot/internal/logger"
)

var (
	mode    string
	dryRun  bool
	verbose bool
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url]",
	Short: "Review a GitHub pull request and post the result as a comment",
	Long: `Review a GitHub pull request and post the result as a comment.

The pull request is taken from the URL argument or, when omitted, from the
GITHUB_REPOSITORY and PR_NUMBER environment variables. The review committee
is used unless --mode single is given.

Examples:
  review-bot review
  review-bot review https://github.com/owner/repo/pull/123
  review-bot review --dry-run --mode single https://github.com/owner/repo/pull/123`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().StringVarP(&mode, "mode", "m", config.ModeCommittee, "Review mode: committee or single")
	reviewCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render the comment locally instead of posting it")
	reviewCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		owner, repo, number, err := gitutil.ParsePullRequestURL(args[0])
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrConfiguration, err)
		}
		cfg.Repository = owner + "/" + repo
		cfg.PRNumber = number
	}
	if err := cfg.ValidateStandalone(); err != nil {
		return err
	}
	if mode != config.ModeCommittee && mode != config.ModeSingle {
		return fmt.Errorf("%w: unknown mode %q", core.ErrConfiguration, mode)
	}

	owner, repo, err := gitutil.SplitRepository(cfg.Repository)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}

	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	log := logger.NewLogger(logCfg, os.Stderr)

	titleColor.Printf("🤖 Reviewing %s#%d (%s)\n", cfg.Repository, cfg.PRNumber, mode)

	ghClient, err := github.NewPATClient(cfg.GitHub.Token.Reveal(), cfg.GitHub.APIURL, log)
	if err != nil {
		return err
	}
	var platform core.Platform = github.NewAdapter(ghClient, config.SurfaceComment, log)
	if dryRun {
		platform = &previewPlatform{Platform: platform, out: os.Stdout}
	}
	tracker := &publishTracker{Platform: platform}

	job, err := newJob(cfg, staticResolver{platform: tracker}, log)
	if err != nil {
		return err
	}

	event := &core.ChangeRequestEvent{
		Platform:     core.PlatformGitHub,
		RepoOwner:    owner,
		RepoName:     repo,
		RepoFullName: cfg.Repository,
		Number:       cfg.PRNumber,
	}
	if err := job.Run(ctx, event); err != nil {
		errorColor.Printf("❌ Review failed: %v\n", err)
		return err
	}

	switch {
	case !tracker.published:
		successColor.Println("✓ Nothing to review, the diff is empty")
	case dryRun:
		successColor.Println("✓ Dry run finished, nothing was posted")
	default:
		successColor.Println("✓ Review posted")
	}
	dimColor.Printf("  Total time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func newJob(cfg *config.Config, resolver core.PlatformResolver, log *slog.Logger) (core.Job, error) {
	prompts, err := llm.NewPromptManager()
	if err != nil {
		return nil, err
	}

	generator := newGenerator(cfg, log)

	if mode == config.ModeSingle {
		return jobs.NewReviewJob(cfg, resolver, generator, prompts, log), nil
	}
	committee := jobs.NewCommittee(cfg, generator, prompts, log)
	return jobs.NewCommitteeJob(resolver, committee, log), nil
}

func newGenerator(cfg *config.Config, log *slog.Logger) *llm.OllamaClient {
	opts := []llm.Option{llm.WithHTTPClient(&http.Client{Timeout: cfg.AI.Timeout})}
	if cfg.AI.EchoTokens {
		opts = append(opts, llm.WithTokenSink(os.Stderr))
	}
	return llm.NewOllamaClient(cfg.AI.OllamaHost, cfg.AI.Model, log, opts...)
}

// publishTracker records whether the job got as far as publishing a comment.
type publishTracker struct {
	core.Platform
	published bool
}

func (p *publishTracker) PublishComment(ctx context.Context, event *core.ChangeRequestEvent, body string) error {
	if err := p.Platform.PublishComment(ctx, event, body); err != nil {
		return err
	}
	p.published = true
	return nil
}

// staticResolver serves every event from the same platform adapter.
type staticResolver struct {
	platform core.Platform
}

func (r staticResolver) ForEvent(context.Context, *core.ChangeRequestEvent) (core.Platform, error) {
	if r.platform == nil {
		return nil, errors.New("no platform configured")
	}
	return r.platform, nil
}

// previewPlatform fetches from the wrapped platform but renders comments to
// out instead of posting them.
type previewPlatform struct {
	core.Platform
	out io.Writer
}

func (p *previewPlatform) PublishComment(_ context.Context, _ *core.ChangeRequestEvent, body string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(body)
	if err != nil {
		return fmt.Errorf("failed to render comment: %w", err)
	}
	_, err = io.WriteString(p.out, rendered)
	return err
}
