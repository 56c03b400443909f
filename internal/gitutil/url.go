package gitutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var prURLRegex = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)

// ParsePullRequestURL parses a GitHub Pull Request URL and extracts the owner, repo, and PR number.
// Supported format: https://github.com/{owner}/{repo}/pull/{number}
func ParsePullRequestURL(url string) (owner, repo string, prNumber int, err error) {
	url = strings.TrimSuffix(url, "/")

	matches := prURLRegex.FindStringSubmatch(url)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("invalid pull request URL format: %s", url)
	}

	owner = matches[1]
	repo = matches[2]
	prNumberStr := matches[3]

	prNumber, err = strconv.Atoi(prNumberStr)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid PR number '%s': %w", prNumberStr, err)
	}

	return owner, repo, prNumber, nil
}

// SplitRepository splits an "owner/repo" identifier such as GITHUB_REPOSITORY.
func SplitRepository(fullName string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", fullName)
	}
	return owner, repo, nil
}

// InstanceURL returns the scheme and host of a project web URL, which is the
// base of the instance's REST API. Self-managed instances served under a
// relative path need an explicit base URL instead.
func InstanceURL(webURL string) (string, error) {
	u, err := url.Parse(webURL)
	if err != nil {
		return "", fmt.Errorf("invalid project URL %q: %w", webURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid project URL %q: missing scheme or host", webURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
