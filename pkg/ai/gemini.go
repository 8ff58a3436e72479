package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resty.dev/v3"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiService struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

func NewGeminiService(apiKey, model string) *GeminiService {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiService{
		client:  resty.New(),
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
	}
}

type geminiPart struct {
	Text         string          `json:"text,omitempty"`
	FunctionCall json.RawMessage `json:"functionCall,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
}

func (g *GeminiService) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)

	payload := map[string]any{
		"contents": []geminiContent{
			{Parts: []geminiPart{{Text: req.Prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature": req.Temperature,
		},
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gemini API error (%d): %s", resp.StatusCode(), resp.String())
	}

	var result geminiResponse
	if err := json.Unmarshal([]byte(resp.String()), &result); err != nil {
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no summary returned")
	}

	parts := result.Candidates[0].Content.Parts
	out := &Completion{Provider: string(ProviderGemini), Model: result.ModelVersion}
	if out.Model == "" {
		out.Model = g.model
	}

	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	out.Text = sb.String()

	if out.Text == "" && len(parts) > 0 {
		raw, err := json.Marshal(parts)
		if err != nil {
			return nil, fmt.Errorf("encode gemini parts: %w", err)
		}
		out.Structured = raw
	}
	return out, nil
}
