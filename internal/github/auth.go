package github

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// NewPATClient creates a GitHub client authenticated with a Personal Access Token (PAT).
func NewPATClient(token, apiURL string, logger *slog.Logger) (Client, error) {
	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		Base:   http.DefaultTransport,
	}
	return newClient(transport, apiURL, logger)
}

// NewInstallationClient creates a GitHub client authenticated as a GitHub App
// installation. Installation tokens are minted and refreshed by the transport.
func NewInstallationClient(appID, installationID int64, privateKeyPath, apiURL string, logger *slog.Logger) (Client, error) {
	logger.Info("creating GitHub installation client", "installation_id", installationID)

	itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	if apiURL != "" {
		itr.BaseURL = strings.TrimRight(apiURL, "/")
	}
	return newClient(itr, apiURL, logger)
}

// newClient stacks the secondary rate limit middleware on top of the
// authenticating transport and points go-github at apiURL.
func newClient(base http.RoundTripper, apiURL string, logger *slog.Logger) (Client, error) {
	client := github.NewClient(github_ratelimit.NewClient(base))

	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		u, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub API URL: %w", err)
		}
		client.BaseURL = u
	}
	return NewGitHubClient(client, logger), nil
}
