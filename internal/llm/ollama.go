// Package llm talks to the locally hosted model that writes the reviews.
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
	"strings"
	"time"

	"github.com/sevigo/review-bot/internal/core"
)

const (
	generatePath    = "/api/generate"
	maxErrorBody    = 4 << 10
	maxStreamLine   = 1 << 20
	defaultTimeout  = 5 * time.Minute
	defaultHostname = "http://localhost:11434"
)

// Generator produces text for a prompt.
//
//go:generate mockgen -destination=../../mocks/mock_generator.go -package=mocks . Generator
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Options are sampling parameters forwarded to the model. Both are always
// sent, so a zero temperature reaches the model as 0.
type Options struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// Request describes one generation call. An empty Model uses the client's
// default model.
type Request struct {
	Model   string
	Prompt  string
	System  string
	Stream  bool
	Options *Options
}

type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	System  string   `json:"system,omitempty"`
	Stream  bool     `json:"stream"`
	Options *Options `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// OllamaClient calls the Ollama generate endpoint.
type OllamaClient struct {
	host   string
	model  string
	client *http.Client
	sink   io.Writer
	logger *slog.Logger
}

type Option func(*OllamaClient)

// WithHTTPClient replaces the default HTTP client. Its Timeout is the only
// timeout applied to a generation call.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OllamaClient) { c.client = client }
}

// WithTokenSink makes streamed tokens visible on w as they arrive.
func WithTokenSink(w io.Writer) Option {
	return func(c *OllamaClient) { c.sink = w }
}

func NewOllamaClient(host, model string, logger *slog.Logger, opts ...Option) *OllamaClient {
	if host == "" {
		host = defaultHostname
	}
	c := &OllamaClient{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate runs a generation call. In streaming mode the tokens are
// accumulated in arrival order; otherwise the single response is returned.
func (c *OllamaClient) Generate(ctx context.Context, req Request) (string, error) {
	if req.Stream {
		return Collect(c.Tokens(ctx, req), c.sink)
	}

	resp, err := c.post(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &core.ModelError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	if out.Error != "" {
		return "", &core.ModelError{Body: out.Error, Err: errors.New(out.Error)}
	}
	return out.Response, nil
}

func (c *OllamaClient) post(ctx context.Context, req Request, stream bool) (*http.Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	payload, err := json.Marshal(generateRequest{
		Model:   model,
		Prompt:  req.Prompt,
		System:  req.System,
		Stream:  stream,
		Options: req.Options,
	})
	if err != nil {
		return nil, &core.ModelError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, &core.ModelError{Err: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("requesting generation", "model", model, "stream", stream, "prompt_bytes", len(req.Prompt))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &core.ModelError{Err: fmt.Errorf("sending request: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &core.ModelError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp, nil
}
