package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyCompletion is returned when a provider produced neither text nor a structured payload
var ErrEmptyCompletion = errors.New("empty completion")

// CompletionRequest is a single-turn prompt for a chat model
type CompletionRequest struct {
	Prompt      string
	Temperature float32
}

// Completion is what a provider returned. Providers fill Text when the model answered in plain
// text and Structured when it answered with a JSON payload (tool calls, function calls, parts).
type Completion struct {
	Text       string
	Structured json.RawMessage
	Provider   string
	Model      string
}

// AsText returns the completion as text. Structured payloads are pretty-printed.
func (c *Completion) AsText() (string, error) {
	if c == nil {
		return "", ErrEmptyCompletion
	}
	if strings.TrimSpace(c.Text) != "" {
		return c.Text, nil
	}
	if len(c.Structured) == 0 {
		return "", ErrEmptyCompletion
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, c.Structured, "", "  "); err != nil {
		// Not valid JSON; the raw bytes are still text.
		raw := strings.TrimSpace(string(c.Structured))
		if raw == "" {
			return "", ErrEmptyCompletion
		}
		return raw, nil
	}
	out := buf.String()
	if out == "null" || out == `""` {
		return "", ErrEmptyCompletion
	}
	return out, nil
}

// ChatCompleter is the interface for chat model providers.
// Implement this interface to add new providers (Groq, Gemini, Ollama, ...).
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGroq   ProviderType = "groq"
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
