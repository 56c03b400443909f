package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptManager_Render(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	diff := "--- a/main.go\n+++ b/main.go\n@@ -1 +1 @@\n-old\n+new"

	tests := []struct {
		name     string
		key      PromptKey
		provider ModelProvider
		want     string
	}{
		{
			name:     "single review",
			key:      ReviewPrompt,
			provider: DefaultProvider,
			want:     "Review this code diff and suggest improvements:\n" + diff,
		},
		{
			name:     "committee falls back to default",
			key:      CommitteePrompt,
			provider: ModelProvider("llama3"),
			want:     "Please review the following code changes:\n\n```diff\n" + diff + "\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pm.Render(tt.key, tt.provider, PromptData{Diff: diff})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptManager_UnknownKey(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	_, err = pm.Render(PromptKey("summary"), DefaultProvider, PromptData{})
	assert.Error(t, err)
}
