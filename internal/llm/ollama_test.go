package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-bot/internal/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func streamServer(t *testing.T, lines []string, got *generateRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		flusher, _ := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintln(w, line)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
}

func TestOllamaClient_GenerateStreaming(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name: "tokens concatenated in order",
			lines: []string{
				`{"response":"Looks ","done":false}`,
				`{"response":"good ","done":false}`,
				`{"response":"overall.","done":false}`,
				`{"response":"","done":true}`,
			},
			want: "Looks good overall.",
		},
		{
			name: "malformed fragment skipped",
			lines: []string{
				`{"response":"first ","done":false}`,
				`{"response": broken`,
				`{"response":"second","done":false}`,
				`{"done":true}`,
			},
			want: "first second",
		},
		{
			name: "blank lines ignored",
			lines: []string{
				`{"response":"a"}`,
				``,
				`{"response":"b"}`,
			},
			want: "ab",
		},
		{
			name: "fragments after done are not read",
			lines: []string{
				`{"response":"end","done":true}`,
				`{"response":"ignored"}`,
			},
			want: "end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body generateRequest
			server := streamServer(t, tt.lines, &body)
			defer server.Close()

			var sink bytes.Buffer
			client := NewOllamaClient(server.URL, "code-reviewer", discardLogger(),
				WithHTTPClient(server.Client()), WithTokenSink(&sink))

			got, err := client.Generate(context.Background(), Request{Prompt: "diff", Stream: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want+"\n", sink.String())

			assert.Equal(t, "code-reviewer", body.Model)
			assert.Equal(t, "diff", body.Prompt)
			assert.True(t, body.Stream)
			assert.Nil(t, body.Options)
		})
	}
}

func TestOllamaClient_StreamError(t *testing.T) {
	server := streamServer(t, []string{
		`{"response":"partial "}`,
		`{"error":"model ran out of memory"}`,
	}, nil)
	defer server.Close()

	client := NewOllamaClient(server.URL, "m", discardLogger(), WithHTTPClient(server.Client()))
	got, err := client.Generate(context.Background(), Request{Prompt: "diff", Stream: true})

	var modelErr *core.ModelError
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, "model ran out of memory", modelErr.Body)
	assert.Equal(t, "partial ", got)
}

func TestOllamaClient_Tokens(t *testing.T) {
	server := streamServer(t, []string{`{"response":"a"}`, `{"response":"b"}`, `{"response":"c"}`}, nil)
	defer server.Close()

	client := NewOllamaClient(server.URL, "m", discardLogger(), WithHTTPClient(server.Client()))
	seq := client.Tokens(context.Background(), Request{Prompt: "diff"})

	var first []string
	for token, err := range seq {
		require.NoError(t, err)
		first = append(first, token)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, first)

	all, err := Collect(seq, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", all)
}

func TestOllamaClient_GenerateNonStreaming(t *testing.T) {
	var body generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "  No issues found.  ", "done": true})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL+"/", "default-model", discardLogger(), WithHTTPClient(server.Client()))
	got, err := client.Generate(context.Background(), Request{
		Model:   "llama3:8b-instruct",
		Prompt:  "review this",
		System:  "You are a security analyst.",
		Options: &Options{Temperature: 0.1, TopP: 0.9},
	})
	require.NoError(t, err)
	assert.Equal(t, "  No issues found.  ", got)

	assert.Equal(t, "llama3:8b-instruct", body.Model)
	assert.Equal(t, "You are a security analyst.", body.System)
	assert.False(t, body.Stream)
	require.NotNil(t, body.Options)
	assert.InDelta(t, 0.1, body.Options.Temperature, 1e-9)
	assert.InDelta(t, 0.9, body.Options.TopP, 1e-9)
}

func TestOllamaClient_ZeroTemperatureSent(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "ok", "done": true})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "default-model", discardLogger(), WithHTTPClient(server.Client()))
	_, err := client.Generate(context.Background(), Request{
		Prompt:  "review this",
		Options: &Options{Temperature: 0, TopP: 0.9},
	})
	require.NoError(t, err)

	require.Contains(t, raw, "options")
	var opts map[string]float64
	require.NoError(t, json.Unmarshal(raw["options"], &opts))
	require.Contains(t, opts, "temperature")
	assert.InDelta(t, 0.0, opts["temperature"], 1e-9)
	assert.InDelta(t, 0.9, opts["top_p"], 1e-9)
}

func TestOllamaClient_Errors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		stream     bool
		wantStatus int
	}{
		{
			name: "non-2xx streaming",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
			},
			stream:     true,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "non-2xx single response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "undecodable single response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "error field in single response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error":"context length exceeded"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewOllamaClient(server.URL, "m", discardLogger(), WithHTTPClient(server.Client()))
			_, err := client.Generate(context.Background(), Request{Prompt: "diff", Stream: tt.stream})

			var modelErr *core.ModelError
			require.ErrorAs(t, err, &modelErr)
			assert.Equal(t, tt.wantStatus, modelErr.StatusCode)
		})
	}
}

func TestOllamaClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewOllamaClient(url, "m", discardLogger())
	_, err := client.Generate(context.Background(), Request{Prompt: "diff"})

	var modelErr *core.ModelError
	require.ErrorAs(t, err, &modelErr)
	assert.Zero(t, modelErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(modelErr))
}
