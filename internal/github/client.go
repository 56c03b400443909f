// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/go-github/v73/github"
)

// Client defines the GitHub operations the review pipeline needs: reading a
// pull request's diff and head commit, and posting feedback on it.
type Client interface {
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
	GetLatestCommitSHA(ctx context.Context, owner, repo string, number int) (string, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	CreateReview(ctx context.Context, owner, repo string, number int, commitID, body string) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// GetPullRequestDiff retrieves the unified diff of a pull request using the
// diff media type.
func (g *gitHubClient) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", err
	}
	return diff, nil
}

// GetLatestCommitSHA returns the SHA of the last commit of a pull request.
// It follows pagination because the API returns at most 100 commits per page.
func (g *gitHubClient) GetLatestCommitSHA(ctx context.Context, owner, repo string, number int) (string, error) {
	opts := &github.ListOptions{PerPage: 100}
	var last *github.RepositoryCommit

	for {
		commits, resp, err := g.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list pull request commits", "owner", owner, "repo", repo, "pr", number, "error", err)
			return "", err
		}
		if len(commits) > 0 {
			last = commits[len(commits)-1]
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if last.GetSHA() == "" {
		return "", errors.New("pull request has no commits")
	}
	return last.GetSHA(), nil
}

// CreateComment creates a new issue-style comment on a pull request.
func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}

// CreateReview creates a pull request review with event COMMENT pinned to commitID.
func (g *gitHubClient) CreateReview(ctx context.Context, owner, repo string, number int, commitID, body string) error {
	reviewRequest := &github.PullRequestReviewRequest{
		CommitID: &commitID,
		Body:     &body,
		Event:    github.Ptr("COMMENT"),
	}

	_, _, err := g.client.PullRequests.CreateReview(ctx, owner, repo, number, reviewRequest)
	if err != nil {
		g.logger.Error("failed to create pull request review", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}

// responseStatus extracts the HTTP status and message from a go-github error.
func responseStatus(err error) (int, string) {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode, errResp.Message
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return rateErr.Response.StatusCode, rateErr.Message
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return abuseErr.Response.StatusCode, abuseErr.Message
	}
	return 0, ""
}
