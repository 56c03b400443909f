package platforms

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-bot/internal/config"
	"github.com/sevigo/review-bot/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{Timeout: 5 * time.Second},
		GitHub: config.GitHubConfig{
			Token:   "ghp_test_token",
			APIURL:  "https://api.github.com/",
			Surface: config.SurfaceReview,
		},
		GitLab: config.GitLabConfig{Token: "glpat-test"},
	}
}

func newTestRegistry(t *testing.T, cfg *config.Config) *Registry {
	t.Helper()
	r, err := NewRegistry(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return r
}

func TestRegistry_ForEvent(t *testing.T) {
	r := newTestRegistry(t, testConfig())

	gh, err := r.ForEvent(context.Background(), &core.ChangeRequestEvent{Platform: core.PlatformGitHub})
	require.NoError(t, err)
	assert.Equal(t, core.PlatformGitHub, gh.Name())

	gl, err := r.ForEvent(context.Background(), &core.ChangeRequestEvent{
		Platform:      core.PlatformGitLab,
		ProjectWebURL: "https://gitlab.example.com/group/repo",
	})
	require.NoError(t, err)
	assert.Equal(t, core.PlatformGitLab, gl.Name())
}

func TestRegistry_GitLabTimeoutIndependentOfModel(t *testing.T) {
	cfg := testConfig()
	cfg.AI.Timeout = 10 * time.Minute
	r := newTestRegistry(t, cfg)

	assert.Equal(t, gitLabAPITimeout, r.httpClient.Timeout)
}

func TestRegistry_UnsupportedPlatform(t *testing.T) {
	r := newTestRegistry(t, testConfig())

	_, err := r.ForEvent(context.Background(), &core.ChangeRequestEvent{Platform: "bitbucket"})
	assert.ErrorContains(t, err, "unsupported platform")
}

func TestRegistry_GitLabInvalidWebURL(t *testing.T) {
	r := newTestRegistry(t, testConfig())

	_, err := r.ForEvent(context.Background(), &core.ChangeRequestEvent{
		Platform:      core.PlatformGitLab,
		ProjectWebURL: "not a url",
	})
	assert.Error(t, err)
}

func TestRegistry_GitLabInstanceFromWebURL(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/projects/42/merge_requests/3/changes", r.URL.Path)
		gotToken = r.Header.Get("PRIVATE-TOKEN")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"iid":     3,
			"changes": []map[string]string{{"diff": "@@ -1 +1 @@"}},
		})
	}))
	defer srv.Close()

	r := newTestRegistry(t, testConfig())
	event := &core.ChangeRequestEvent{
		Platform:      core.PlatformGitLab,
		ProjectID:     42,
		Number:        3,
		ProjectWebURL: srv.URL + "/group/sub/repo",
	}

	platform, err := r.ForEvent(context.Background(), event)
	require.NoError(t, err)

	diff, err := platform.FetchDiff(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "@@ -1 +1 @@", diff)
	assert.Equal(t, "glpat-test", gotToken)
}

func TestRegistry_GitLabConfiguredBaseURL(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"changes": []map[string]string{}})
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.GitLab.BaseURL = srv.URL
	r := newTestRegistry(t, cfg)
	event := &core.ChangeRequestEvent{
		Platform:      core.PlatformGitLab,
		ProjectID:     1,
		Number:        1,
		ProjectWebURL: "https://unreachable.invalid/group/repo",
	}

	platform, err := r.ForEvent(context.Background(), event)
	require.NoError(t, err)

	diff, err := platform.FetchDiff(context.Background(), event)
	require.NoError(t, err)
	assert.Empty(t, diff)
	assert.Equal(t, 1, calls)
}

func TestRegistry_GitHubAppMissingKey(t *testing.T) {
	cfg := testConfig()
	cfg.GitHub.AppID = 1234
	cfg.GitHub.PrivateKeyPath = "testdata/does-not-exist.pem"
	r := newTestRegistry(t, cfg)

	_, err := r.ForEvent(context.Background(), &core.ChangeRequestEvent{
		Platform:       core.PlatformGitHub,
		InstallationID: 99,
	})
	assert.ErrorContains(t, err, "installation client")

	// Without an installation id the token client is used.
	p, err := r.ForEvent(context.Background(), &core.ChangeRequestEvent{Platform: core.PlatformGitHub})
	require.NoError(t, err)
	assert.Equal(t, core.PlatformGitHub, p.Name())
}
