package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/sevigo/review-bot/internal/core"
)

// Tokens streams a generation call. The sequence yields each token in arrival
// order and ends after the final fragment; an error is yielded at most once
// and terminates it. Fragments that are not valid JSON are logged and skipped.
// Every call issues a new request, so the sequence can be ranged over again.
func (c *OllamaClient) Tokens(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resp, err := c.post(ctx, req, true)
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64<<10), maxStreamLine)

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var chunk generateResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				c.logger.Warn("skipping malformed stream fragment", "error", err, "fragment", string(line))
				continue
			}
			if chunk.Error != "" {
				yield("", &core.ModelError{Body: chunk.Error, Err: errors.New(chunk.Error)})
				return
			}
			if chunk.Response != "" && !yield(chunk.Response, nil) {
				return
			}
			if chunk.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", &core.ModelError{Err: fmt.Errorf("reading stream: %w", err)})
		}
	}
}

// Collect concatenates the tokens of seq, copying each one to sink when sink
// is not nil. On error the text received so far is returned with it.
func Collect(seq iter.Seq2[string, error], sink io.Writer) (string, error) {
	var sb strings.Builder
	for token, err := range seq {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(token)
		if sink != nil {
			_, _ = io.WriteString(sink, token)
		}
	}
	if sink != nil {
		_, _ = io.WriteString(sink, "\n")
	}
	return sb.String(), nil
}
