package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdelivery "medbot-backend/internal/auth/delivery"
	authdomain "medbot-backend/internal/auth/domain"
	"medbot-backend/internal/conversation/domain"
	"medbot-backend/internal/conversation/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSummarizer struct {
	out     *usecase.Outcome
	items   []*domain.ConversationSummary
	listErr error
	email   string
}

func (s *stubSummarizer) Run(ctx context.Context, history, email string) *usecase.Outcome {
	s.email = email
	return s.out
}

func (s *stubSummarizer) History(ctx context.Context, email string, limit, offset int) ([]*domain.ConversationSummary, int64, error) {
	s.email = email
	return s.items, int64(len(s.items)), s.listErr
}

type stubQueue struct {
	accept bool
	jobs   []usecase.SummaryJob
}

func (q *stubQueue) QueueJob(job usecase.SummaryJob) bool {
	if q.accept {
		q.jobs = append(q.jobs, job)
	}
	return q.accept
}

func setupRouter(h *ConversationHandler, user *authdomain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/conversations/summarize", h.Summarize)
	r.POST("/api/conversations/summarize/async", h.SummarizeAsync)
	r.GET("/api/conversations", func(c *gin.Context) {
		if user != nil {
			c.Set(authdelivery.ContextUserKey, user)
			c.Set(authdelivery.ContextUserIDKey, user.ID)
		}
		h.ListHistory(c)
	})
	return r
}

func TestSummarize_AlwaysOKWithFallback(t *testing.T) {
	sum := &stubSummarizer{out: &usecase.Outcome{
		Summary:   usecase.FallbackSummary,
		Sentiment: domain.DefaultSentiment(),
	}}
	r := setupRouter(NewConversationHandler(sum, nil), nil)

	w := httptest.NewRecorder()
	body := `{"conversation_history":"User: hi","email":"jane@example.com"}`
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/conversations/summarize", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp SummarizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, usecase.FallbackSummary, resp.Summary)
	assert.Equal(t, "neutral", resp.Sentiment.Label)
	assert.False(t, resp.Saved)
	assert.Equal(t, "jane@example.com", sum.email)
}

func TestSummarize_MissingHistory(t *testing.T) {
	r := setupRouter(NewConversationHandler(&stubSummarizer{}, nil), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/conversations/summarize", strings.NewReader(`{"email":"a@b.co"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummarizeAsync(t *testing.T) {
	queue := &stubQueue{accept: true}
	r := setupRouter(NewConversationHandler(&stubSummarizer{}, queue), nil)

	w := httptest.NewRecorder()
	body := `{"conversation_history":"User: hi","email":"jane@example.com"}`
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/conversations/summarize/async", strings.NewReader(body)))
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "User: hi", queue.jobs[0].History)

	queue.accept = false
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/conversations/summarize/async", strings.NewReader(body)))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListHistory(t *testing.T) {
	sum := &stubSummarizer{items: []*domain.ConversationSummary{{ID: "r1", Summary: "- one"}}}
	user := &authdomain.User{ID: "u1", Email: "jane@example.com"}
	r := setupRouter(NewConversationHandler(sum, nil), user)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conversations?limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summaries []domain.ConversationSummary `json:"summaries"`
		Total     int                          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "- one", resp.Summaries[0].Summary)
	assert.Equal(t, "jane@example.com", sum.email)
}

func TestListHistory_Unauthenticated(t *testing.T) {
	r := setupRouter(NewConversationHandler(&stubSummarizer{}, nil), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conversations", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
