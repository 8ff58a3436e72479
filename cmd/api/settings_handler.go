package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"medbot-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"resty.dev/v3"
)

// RuntimeSettings holds the Ollama endpoint, changeable without a restart.
// The Ollama provider reads it on every call.
type RuntimeSettings struct {
	mu            sync.RWMutex
	ollamaBaseURL string
	ollamaModel   string

	httpClient *resty.Client
}

func NewRuntimeSettings(ollamaBaseURL, ollamaModel string) *RuntimeSettings {
	return &RuntimeSettings{
		ollamaBaseURL: strings.TrimRight(ollamaBaseURL, "/"),
		ollamaModel:   ollamaModel,
		httpClient:    resty.New().SetTimeout(5 * time.Second),
	}
}

// OllamaBaseURL returns the current Ollama base URL
func (s *RuntimeSettings) OllamaBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaBaseURL
}

// OllamaModel returns the current Ollama model
func (s *RuntimeSettings) OllamaModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaModel
}

func (s *RuntimeSettings) Close() error {
	return s.httpClient.Close()
}

// UpdateOllamaSettingsRequest is the body of PUT /api/settings/ollama
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required,url"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// GetOllamaSettings returns the current Ollama configuration
// GET /api/settings/ollama
func (s *RuntimeSettings) GetOllamaSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": s.OllamaBaseURL(),
		"ollama_model":    s.OllamaModel(),
	})
}

// UpdateOllamaSettings changes the Ollama configuration at runtime.
// An empty model keeps the current one.
// PUT /api/settings/ollama
func (s *RuntimeSettings) UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.ollamaBaseURL = strings.TrimRight(req.OllamaBaseURL, "/")
	if req.OllamaModel != "" {
		s.ollamaModel = req.OllamaModel
	}
	baseURL, model := s.ollamaBaseURL, s.ollamaModel
	s.mu.Unlock()

	l := logger.Component("settings")
	l.Info().
		Str("ollama_base_url", baseURL).
		Str("ollama_model", model).
		Msg("ollama settings updated")

	c.JSON(http.StatusOK, gin.H{
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": baseURL,
		"ollama_model":    model,
	})
}

// TestOllamaConnection checks that an Ollama server answers /api/tags.
// Without a body the current setting is checked.
// POST /api/settings/ollama/test
func (s *RuntimeSettings) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	_ = c.ShouldBindJSON(&req)
	baseURL := strings.TrimRight(req.OllamaBaseURL, "/")
	if baseURL == "" {
		baseURL = s.OllamaBaseURL()
	}

	resp, err := s.httpClient.R().SetContext(c.Request.Context()).Get(baseURL + "/api/tags")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}
	if resp.StatusCode() != http.StatusOK {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected":   false,
			"status_code": resp.StatusCode(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"ollama_base_url": baseURL,
	})
}
