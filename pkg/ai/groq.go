package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqService implements ChatCompleter against Groq's OpenAI-compatible API
type GroqService struct {
	client *openai.Client
	model  string
}

// NewGroqService creates a Groq completer. apiKey must not be empty; callers validate it at startup.
func NewGroqService(apiKey, baseURL, model string, httpClient *http.Client) *GroqService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	cfg.BaseURL = baseURL
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &GroqService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete implements ChatCompleter
func (g *GroqService) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("groq chat completion: no choices returned")
	}

	msg := resp.Choices[0].Message
	out := &Completion{
		Text:     msg.Content,
		Provider: string(ProviderGroq),
		Model:    resp.Model,
	}
	if msg.Content == "" && (len(msg.ToolCalls) > 0 || msg.FunctionCall != nil || len(msg.MultiContent) > 0) {
		raw, err := json.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("groq chat completion: encode structured message: %w", err)
		}
		out.Structured = raw
	}
	return out, nil
}
