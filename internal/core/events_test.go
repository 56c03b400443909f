package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

func pullRequestEvent(action, fullName string, number int) *github.PullRequestEvent {
	return &github.PullRequestEvent{
		Action: github.Ptr(action),
		Number: github.Ptr(number),
		Repo:   &github.Repository{FullName: github.Ptr(fullName)},
		PullRequest: &github.PullRequest{
			Number:  github.Ptr(number),
			DiffURL: github.Ptr("https://github.com/" + fullName + "/pull/7.diff"),
			Head:    &github.PullRequestBranch{SHA: github.Ptr("abc123")},
		},
		Installation: &github.Installation{ID: github.Ptr(int64(42))},
	}
}

func TestEventFromPullRequest(t *testing.T) {
	tests := []struct {
		name        string
		event       *github.PullRequestEvent
		wantErr     bool
		wantIgnored bool
	}{
		{name: "opened", event: pullRequestEvent("opened", "org/repo", 7)},
		{name: "synchronize", event: pullRequestEvent("synchronize", "org/repo", 7)},
		{name: "closed is ignored", event: pullRequestEvent("closed", "org/repo", 7), wantErr: true, wantIgnored: true},
		{name: "labeled is ignored", event: pullRequestEvent("labeled", "org/repo", 7), wantErr: true, wantIgnored: true},
		{name: "missing repository", event: &github.PullRequestEvent{Action: github.Ptr("opened"), Number: github.Ptr(1)}, wantErr: true},
		{name: "bad full name", event: pullRequestEvent("opened", "no-slash", 7), wantErr: true},
		{name: "zero number", event: pullRequestEvent("opened", "org/repo", 0), wantErr: true},
		{name: "nil event", event: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EventFromPullRequest(tt.event)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantIgnored, errors.Is(err, ErrEventIgnored))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PlatformGitHub, got.Platform)
			assert.Equal(t, "org", got.RepoOwner)
			assert.Equal(t, "repo", got.RepoName)
			assert.Equal(t, "org/repo", got.RepoFullName)
			assert.Equal(t, 7, got.Number)
			assert.Equal(t, "abc123", got.HeadSHA)
			assert.Equal(t, int64(42), got.InstallationID)
		})
	}
}

func mergeEvent(t *testing.T, raw string) *gitlab.MergeEvent {
	t.Helper()
	var ev gitlab.MergeEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	return &ev
}

func TestEventFromMergeRequest(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantErr     bool
		wantIgnored bool
	}{
		{
			name: "open",
			payload: `{"object_kind":"merge_request","project":{"id":5,"name":"repo","path_with_namespace":"group/sub/repo","web_url":"https://gitlab.example.com/group/sub/repo"},
				"object_attributes":{"iid":3,"action":"open","last_commit":{"id":"def456"}}}`,
		},
		{
			name: "update",
			payload: `{"object_kind":"merge_request","project":{"id":5,"name":"repo","path_with_namespace":"group/sub/repo","web_url":"https://gitlab.example.com/group/sub/repo"},
				"object_attributes":{"iid":3,"action":"update","last_commit":{"id":"def456"}}}`,
		},
		{
			name:        "merge is ignored",
			payload:     `{"object_kind":"merge_request","project":{"id":5,"web_url":"https://gitlab.example.com/g/r"},"object_attributes":{"iid":3,"action":"merge"}}`,
			wantErr:     true,
			wantIgnored: true,
		},
		{
			name:        "push kind is ignored",
			payload:     `{"object_kind":"push"}`,
			wantErr:     true,
			wantIgnored: true,
		},
		{
			name:    "missing project id",
			payload: `{"object_kind":"merge_request","project":{"web_url":"https://gitlab.example.com/g/r"},"object_attributes":{"iid":3,"action":"open"}}`,
			wantErr: true,
		},
		{
			name:    "missing web url",
			payload: `{"object_kind":"merge_request","project":{"id":5},"object_attributes":{"iid":3,"action":"open"}}`,
			wantErr: true,
		},
		{
			name:    "missing iid",
			payload: `{"object_kind":"merge_request","project":{"id":5,"web_url":"https://gitlab.example.com/g/r"},"object_attributes":{"action":"open"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EventFromMergeRequest(mergeEvent(t, tt.payload))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantIgnored, errors.Is(err, ErrEventIgnored))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PlatformGitLab, got.Platform)
			assert.Equal(t, 5, got.ProjectID)
			assert.Equal(t, 3, got.Number)
			assert.Equal(t, "group/sub", got.RepoOwner)
			assert.Equal(t, "repo", got.RepoName)
			assert.Equal(t, "group/sub/repo", got.RepoFullName)
			assert.Equal(t, "def456", got.HeadSHA)
			assert.Equal(t, "https://gitlab.example.com/group/sub/repo", got.ProjectWebURL)
		})
	}
}

func TestErrorTypes(t *testing.T) {
	cause := errors.New("connection refused")

	fetchErr := &FetchError{Platform: PlatformGitHub, StatusCode: 404, Body: "Not Found"}
	assert.Contains(t, fetchErr.Error(), "404")

	modelErr := &ModelError{Err: cause}
	assert.ErrorIs(t, modelErr, cause)
	assert.Contains(t, modelErr.Error(), "connection refused")

	var target *PublishError
	wrapped := errors.Join(errors.New("context"), &PublishError{Platform: PlatformGitLab, StatusCode: 403, Body: "forbidden"})
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, 403, target.StatusCode)
}

func TestDefaultPersonas(t *testing.T) {
	personas := DefaultPersonas()
	require.Len(t, personas, 3)
	assert.Equal(t, "Security Analyst", personas[0].Name)
	assert.Equal(t, "Performance Guru", personas[1].Name)
	assert.Equal(t, "Maintainability Coach", personas[2].Name)
	for _, p := range personas {
		assert.NotEmpty(t, p.Icon)
		assert.Contains(t, p.Instructions, "No issues found.")
	}
}
