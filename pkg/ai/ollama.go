package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resty.dev/v3"
)

// OllamaService implements ChatCompleter using a local Ollama server
type OllamaService struct {
	client     *resty.Client
	getBaseURL func() string // Dynamic getter for BaseURL
	getModel   func() string // Dynamic getter for Model
}

// NewOllamaService creates a new Ollama service with fixed settings
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return NewOllamaServiceWithGetters(
		func() string { return baseURL },
		func() string { return model },
	)
}

// NewOllamaServiceWithGetters creates a new Ollama service whose settings can change at runtime
func NewOllamaServiceWithGetters(getBaseURL, getModel func() string) *OllamaService {
	return &OllamaService{
		client:     resty.New(),
		getBaseURL: getBaseURL,
		getModel:   getModel,
	}
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete implements ChatCompleter
func (o *OllamaService) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	url := strings.TrimRight(o.getBaseURL(), "/") + "/api/generate"
	model := o.getModel()

	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ollamaGenerateRequest{
			Model:  model,
			Prompt: req.Prompt,
			Stream: false,
			Options: map[string]any{
				"temperature": req.Temperature,
			},
		}).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode(), resp.String())
	}

	var result ollamaGenerateResponse
	if err := json.Unmarshal([]byte(resp.String()), &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	out := &Completion{Text: result.Response, Provider: string(ProviderOllama), Model: result.Model}
	if out.Model == "" {
		out.Model = model
	}
	return out, nil
}
