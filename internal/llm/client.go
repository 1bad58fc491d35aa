package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/binko-idea-agent/internal/errors"
)

// Failure classes a provider reports. Anything unclassified is treated as
// transient by the invoker.
var (
	ErrTransient       = errors.New(errors.CodeExternalService, "model call failed")
	ErrRateLimited     = errors.New(errors.CodeExternalService, "model rate limited")
	ErrMalformedOutput = errors.New(errors.CodeExternalService, "model returned malformed output")
)

// Request is one chat completion call.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Client is a chat-completion backend returning the raw text of a single
// JSON-object answer.
type Client interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// ParseObject decodes model text into a JSON object, tolerating markdown
// code fences around it.
func ParseObject(content string) (map[string]any, error) {
	content = cleanJSONContent(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty content", ErrMalformedOutput)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedOutput)
	}
	return out, nil
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```JSON")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}
