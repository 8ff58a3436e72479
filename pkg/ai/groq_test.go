package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groqServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGroqService_Complete_Text(t *testing.T) {
	var req map[string]any
	srv := groqServer(t, http.StatusOK, `{
		"model": "deepseek-r1-distill-llama-70b",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "- Patient reports headache"}}]
	}`, &req)

	svc := NewGroqService("gsk_test", srv.URL, "deepseek-r1-distill-llama-70b", srv.Client())
	out, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "summarize", Temperature: 0.3})
	require.NoError(t, err)

	assert.Equal(t, "- Patient reports headache", out.Text)
	assert.Equal(t, "groq", out.Provider)
	assert.Equal(t, "deepseek-r1-distill-llama-70b", req["model"])
	assert.InDelta(t, 0.3, req["temperature"], 1e-6)

	msgs, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "summarize", msgs[0].(map[string]any)["content"])
}

func TestGroqService_Complete_ToolCallBecomesStructured(t *testing.T) {
	srv := groqServer(t, http.StatusOK, `{
		"model": "m",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "",
			"tool_calls": [{"id": "c1", "type": "function", "function": {"name": "summary", "arguments": "{\"points\":[\"a\"]}"}}]}}]
	}`, nil)

	svc := NewGroqService("gsk_test", srv.URL, "m", srv.Client())
	out, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	require.NoError(t, err)

	assert.Empty(t, out.Text)
	require.NotEmpty(t, out.Structured)
	text, err := out.AsText()
	require.NoError(t, err)
	assert.Contains(t, text, "summary")
}

func TestGroqService_Complete_NoChoices(t *testing.T) {
	srv := groqServer(t, http.StatusOK, `{"model": "m", "choices": []}`, nil)

	svc := NewGroqService("gsk_test", srv.URL, "m", srv.Client())
	_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	require.Error(t, err)
}

func TestGroqService_Complete_RateLimited(t *testing.T) {
	srv := groqServer(t, http.StatusTooManyRequests,
		`{"error": {"message": "Rate limit reached", "type": "tokens"}}`, nil)

	svc := NewGroqService("gsk_test", srv.URL, "m", srv.Client())
	_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, isQuotaError(err))
}
