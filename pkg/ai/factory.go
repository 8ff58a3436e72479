package ai

import (
	"fmt"
	"net/http"
	"time"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "groq", "gemini", "ollama" or "auto"
	Timeout  time.Duration

	// Groq config
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	// Gemini config
	GeminiAPIKey string
	GeminiModel  string

	// Ollama config, read on every call so settings can change at runtime
	OllamaBaseURL func() string // e.g., "http://localhost:11434"
	OllamaModel   func() string // e.g., "llama3", "mistral"
}

// NewChatCompleter creates a ChatCompleter based on the config.
// Switch provider by changing cfg.Provider. "auto" chains every configured provider, Groq first.
func NewChatCompleter(cfg Config) (ChatCompleter, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	groq := func() ChatCompleter {
		return NewGroqService(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, httpClient)
	}
	gemini := func() ChatCompleter {
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	ollama := func() ChatCompleter {
		if cfg.OllamaBaseURL == nil || cfg.OllamaModel == nil {
			return NewOllamaService("", "")
		}
		return NewOllamaServiceWithGetters(cfg.OllamaBaseURL, cfg.OllamaModel)
	}

	switch cfg.Provider {
	case ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required for Groq provider")
		}
		return groq(), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return gemini(), nil

	case ProviderOllama:
		return ollama(), nil

	case ProviderAuto, "":
		var chain []NamedCompleter
		if cfg.GroqAPIKey != "" {
			chain = append(chain, NamedCompleter{Name: string(ProviderGroq), Completer: groq()})
		}
		if cfg.GeminiAPIKey != "" {
			chain = append(chain, NamedCompleter{Name: string(ProviderGemini), Completer: gemini()})
		}
		chain = append(chain, NamedCompleter{Name: string(ProviderOllama), Completer: ollama()})
		return NewFallbackService(chain...), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}
