// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-github/v73/github"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Hosting platform identifiers.
const (
	PlatformGitHub = "github"
	PlatformGitLab = "gitlab"
)

var (
	gitHubActions = []string{"opened", "synchronize"}
	gitLabActions = []string{"open", "update"}
)

// ChangeRequestEvent is the internal, platform-neutral view of a pull request or
// merge request webhook. It is built once per inbound request and discarded
// after the review job has run.
type ChangeRequestEvent struct {
	Platform string
	Action   string

	// Repository details. For GitLab, RepoFullName is the path with namespace.
	RepoOwner    string
	RepoName     string
	RepoFullName string

	// Number is the pull request number on GitHub and the merge request IID on GitLab.
	Number  int
	HeadSHA string
	DiffURL string

	// GitLab only.
	ProjectID     int
	ProjectWebURL string

	// GitHub App installation that delivered the event, if any.
	InstallationID int64
}

// EventFromPullRequest transforms a GitHub PullRequestEvent into the internal
// ChangeRequestEvent. It acts as an anti-corruption layer: actions other than
// opened/synchronize yield ErrEventIgnored, incomplete payloads yield a
// descriptive error.
func EventFromPullRequest(event *github.PullRequestEvent) (*ChangeRequestEvent, error) {
	if event == nil {
		return nil, fmt.Errorf("pull request event is nil")
	}
	action := event.GetAction()
	if !slices.Contains(gitHubActions, action) {
		return nil, fmt.Errorf("%w: unsupported pull request action %q", ErrEventIgnored, action)
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetFullName() == "" {
		return nil, fmt.Errorf("repository information is missing from the event")
	}
	owner, name, err := splitFullName(repo.GetFullName())
	if err != nil {
		return nil, err
	}

	pr := event.GetPullRequest()
	number := event.GetNumber()
	if number == 0 {
		number = pr.GetNumber()
	}
	if number <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", number)
	}

	return &ChangeRequestEvent{
		Platform:       PlatformGitHub,
		Action:         action,
		RepoOwner:      owner,
		RepoName:       name,
		RepoFullName:   repo.GetFullName(),
		Number:         number,
		HeadSHA:        pr.GetHead().GetSHA(),
		DiffURL:        pr.GetDiffURL(),
		InstallationID: event.GetInstallation().GetID(),
	}, nil
}

// EventFromMergeRequest transforms a GitLab MergeEvent into the internal
// ChangeRequestEvent. Only open/update actions are accepted.
func EventFromMergeRequest(event *gitlab.MergeEvent) (*ChangeRequestEvent, error) {
	if event == nil {
		return nil, fmt.Errorf("merge request event is nil")
	}
	if event.ObjectKind != "" && event.ObjectKind != "merge_request" {
		return nil, fmt.Errorf("%w: object kind %q", ErrEventIgnored, event.ObjectKind)
	}

	action := event.ObjectAttributes.Action
	if !slices.Contains(gitLabActions, action) {
		return nil, fmt.Errorf("%w: unsupported merge request action %q", ErrEventIgnored, action)
	}

	if event.Project.ID <= 0 {
		return nil, fmt.Errorf("invalid project id: %d", event.Project.ID)
	}
	if event.Project.WebURL == "" {
		return nil, fmt.Errorf("project web URL is missing from the event")
	}
	iid := event.ObjectAttributes.IID
	if iid <= 0 {
		return nil, fmt.Errorf("invalid merge request iid: %d", iid)
	}

	fullName := event.Project.PathWithNamespace
	owner, name := "", event.Project.Name
	if idx := strings.LastIndex(fullName, "/"); idx > 0 {
		owner, name = fullName[:idx], fullName[idx+1:]
	}

	return &ChangeRequestEvent{
		Platform:      PlatformGitLab,
		Action:        action,
		RepoOwner:     owner,
		RepoName:      name,
		RepoFullName:  fullName,
		Number:        iid,
		HeadSHA:       event.ObjectAttributes.LastCommit.ID,
		ProjectID:     event.Project.ID,
		ProjectWebURL: event.Project.WebURL,
	}, nil
}

func splitFullName(fullName string) (string, string, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository full name %q", fullName)
	}
	return owner, name, nil
}
