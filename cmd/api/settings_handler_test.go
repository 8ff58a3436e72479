package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsRouter(s *RuntimeSettings) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/settings/ollama", s.GetOllamaSettings)
	r.PUT("/api/settings/ollama", s.UpdateOllamaSettings)
	r.POST("/api/settings/ollama/test", s.TestOllamaConnection)
	return r
}

func TestRuntimeSettings_Update(t *testing.T) {
	s := NewRuntimeSettings("http://localhost:11434/", "llama3")
	defer s.Close()
	r := settingsRouter(s)

	assert.Equal(t, "http://localhost:11434", s.OllamaBaseURL())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/settings/ollama",
		strings.NewReader(`{"ollama_base_url":"http://gpu-box:11434"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://gpu-box:11434", s.OllamaBaseURL())
	assert.Equal(t, "llama3", s.OllamaModel())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/settings/ollama",
		strings.NewReader(`{"ollama_base_url":"not a url"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "http://gpu-box:11434", s.OllamaBaseURL())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings/ollama", nil))
	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "http://gpu-box:11434", got["ollama_base_url"])
}

func TestRuntimeSettings_TestConnection(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ollama.Close()

	s := NewRuntimeSettings(ollama.URL, "llama3")
	defer s.Close()
	r := settingsRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/settings/ollama/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":true`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/settings/ollama/test",
		strings.NewReader(`{"ollama_base_url":"`+ollama.URL+`/missing"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
