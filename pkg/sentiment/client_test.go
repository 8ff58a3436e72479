package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medbot-backend/pkg/apperrors"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

func TestClient_Analyze(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "- patient reports mild fever", req.Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_label":"negative","confidence":0.87}`))
	})

	res, err := client.Analyze(context.Background(), "- patient reports mild fever")
	require.NoError(t, err)
	assert.Equal(t, "negative", res.Label)
	assert.InDelta(t, 0.87, res.Confidence, 1e-9)
}

func TestClient_Analyze_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"model not loaded"}`},
		{"missing label", http.StatusOK, `{"confidence":0.5}`},
		{"confidence above one", http.StatusOK, `{"predicted_label":"positive","confidence":1.5}`},
		{"negative confidence", http.StatusOK, `{"predicted_label":"positive","confidence":-0.1}`},
		{"not json", http.StatusOK, `ok`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Analyze(context.Background(), "text")
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindSentimentUnavailable))
		})
	}
}

func TestClient_Analyze_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, 200*time.Millisecond)
	_, err := client.Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSentimentUnavailable))
}

func TestDefault(t *testing.T) {
	assert.Equal(t, Result{Label: "neutral", Confidence: 0}, Default())
}
