package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	out   *Completion
	err   error
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	s.calls++
	return s.out, s.err
}

func TestFallbackService_FirstProviderWins(t *testing.T) {
	first := &stubCompleter{out: &Completion{Text: "from groq"}}
	second := &stubCompleter{out: &Completion{Text: "from ollama"}}

	svc := NewFallbackService(
		NamedCompleter{Name: "groq", Completer: first},
		NamedCompleter{Name: "ollama", Completer: second},
	)
	out, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "from groq", out.Text)
	assert.Equal(t, 0, second.calls)
}

func TestFallbackService_FallsBackOnErrorAndEmptyCompletion(t *testing.T) {
	failing := &stubCompleter{err: errors.New("dial tcp: connection refused")}
	empty := &stubCompleter{out: &Completion{}}
	last := &stubCompleter{out: &Completion{Text: "from ollama"}}

	svc := NewFallbackService(
		NamedCompleter{Name: "groq", Completer: failing},
		NamedCompleter{Name: "gemini", Completer: empty},
		NamedCompleter{Name: "ollama", Completer: last},
	)
	out, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "from ollama", out.Text)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, empty.calls)
}

func TestFallbackService_AllFail(t *testing.T) {
	svc := NewFallbackService(
		NamedCompleter{Name: "groq", Completer: &stubCompleter{err: errors.New("429 too many requests")}},
		NamedCompleter{Name: "ollama", Completer: &stubCompleter{err: errors.New("connection refused")}},
	)
	_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq")
	assert.Contains(t, err.Error(), "ollama")
}

func TestFallbackService_NoProviders(t *testing.T) {
	svc := NewFallbackService(NamedCompleter{Name: "nil"})
	_, err := svc.Complete(context.Background(), CompletionRequest{})
	require.Error(t, err)
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:11434: connection refused")))
	assert.True(t, isConnectionError(errors.New("unexpected EOF")))
	assert.False(t, isConnectionError(errors.New("bad request")))
	assert.False(t, isConnectionError(nil))

	assert.True(t, isQuotaError(errors.New("RESOURCE_EXHAUSTED")))
	assert.True(t, isQuotaError(errors.New("status 429")))
	assert.False(t, isQuotaError(errors.New("bad request")))
	assert.False(t, isQuotaError(nil))
}

func TestOllamaService_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","response":"- summary","done":true}`))
	}))
	defer srv.Close()

	model := "llama3"
	svc := NewOllamaServiceWithGetters(
		func() string { return srv.URL },
		func() string { return model },
	)
	out, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "p", Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "- summary", out.Text)
	assert.Equal(t, "ollama", out.Provider)
}

func TestOllamaService_Complete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	svc := NewOllamaService(srv.URL, "missing")
	_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestGeminiService_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"- a"},{"text":"\n- b"}]}}]}`))
	}))
	defer srv.Close()

	svc := NewGeminiService("k", "")
	svc.baseURL = srv.URL
	out, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "- a\n- b", out.Text)
	assert.Equal(t, "gemini-2.5-flash", out.Model)
}

func TestGeminiService_Complete_FunctionCallIsStructured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"functionCall":{"name":"summary","args":{"points":["x"]}}}]}}]}`))
	}))
	defer srv.Close()

	svc := NewGeminiService("k", "gemini-2.5-flash")
	svc.baseURL = srv.URL
	out, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.NoError(t, err)

	text, err := out.AsText()
	require.NoError(t, err)
	assert.Contains(t, text, "functionCall")
}

func TestNewChatCompleter(t *testing.T) {
	_, err := NewChatCompleter(Config{Provider: ProviderGroq})
	require.Error(t, err)

	c, err := NewChatCompleter(Config{Provider: ProviderGroq, GroqAPIKey: "k", GroqModel: "m"})
	require.NoError(t, err)
	assert.IsType(t, &GroqService{}, c)

	c, err = NewChatCompleter(Config{Provider: ProviderAuto, GeminiAPIKey: "k"})
	require.NoError(t, err)
	fb, ok := c.(*FallbackService)
	require.True(t, ok)
	require.Len(t, fb.providers, 2)
	assert.Equal(t, "gemini", fb.providers[0].Name)
	assert.Equal(t, "ollama", fb.providers[1].Name)

	_, err = NewChatCompleter(Config{Provider: "openai"})
	require.Error(t, err)
}
