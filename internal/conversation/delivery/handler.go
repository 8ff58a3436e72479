package delivery

import (
	"context"
	"net/http"
	"strconv"

	authdelivery "medbot-backend/internal/auth/delivery"
	"medbot-backend/internal/conversation/domain"
	"medbot-backend/internal/conversation/usecase"
	"medbot-backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Summarizer is what the handler needs from usecase.Summarizer
type Summarizer interface {
	Run(ctx context.Context, history, email string) *usecase.Outcome
	History(ctx context.Context, email string, limit, offset int) ([]*domain.ConversationSummary, int64, error)
}

// JobQueue accepts background summary jobs
type JobQueue interface {
	QueueJob(job usecase.SummaryJob) bool
}

// ConversationHandler handles conversation summary endpoints
type ConversationHandler struct {
	summarizer Summarizer
	queue      JobQueue
}

func NewConversationHandler(summarizer Summarizer, queue JobQueue) *ConversationHandler {
	return &ConversationHandler{
		summarizer: summarizer,
		queue:      queue,
	}
}

// SummarizeRequest carries a transcript and the user it belongs to
type SummarizeRequest struct {
	ConversationHistory string `json:"conversation_history" binding:"required"`
	Email               string `json:"email"`
}

// SummarizeResponse is returned by the synchronous endpoint
type SummarizeResponse struct {
	Summary   string           `json:"summary"`
	Sentiment domain.Sentiment `json:"sentiment"`
	Saved     bool             `json:"saved"`
}

// Summarize runs the summarizer and always answers 200 once the body binds
// POST /api/conversations/summarize
func (h *ConversationHandler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := h.summarizer.Run(c.Request.Context(), req.ConversationHistory, req.Email)

	c.JSON(http.StatusOK, SummarizeResponse{
		Summary:   out.Summary,
		Sentiment: out.Sentiment,
		Saved:     out.Persisted(),
	})
}

// SummarizeAsync queues a transcript for background summarization
// POST /api/conversations/summarize/async
func (h *ConversationHandler) SummarizeAsync(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.queue == nil || !h.queue.QueueJob(usecase.SummaryJob{Email: req.Email, History: req.ConversationHistory}) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "summary queue is full, try again later"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

// ListHistory returns the authenticated user's stored summaries in append order
// GET /api/conversations?limit=50&offset=0
func (h *ConversationHandler) ListHistory(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.summarizer.History(c.Request.Context(), user.Email, limit, offset)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			c.JSON(http.StatusOK, gin.H{"summaries": []*domain.ConversationSummary{}, "total": 0})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summaries": items,
		"total":     total,
	})
}
