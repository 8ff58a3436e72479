package repository

import (
	"context"
	"errors"

	"medbot-backend/internal/conversation/domain"
)

// ErrOwnerGone is returned by AppendSummary when the owner disappeared between lookup and append
var ErrOwnerGone = errors.New("owner no longer exists")

// UserStore is the persistence the summarizer writes conversation history through
type UserStore interface {
	// FindOwner returns nil, nil when no user has the email
	FindOwner(ctx context.Context, email string) (*domain.Owner, error)
	// AppendSummary adds rec to the end of the owner's history, filling ID and CreatedAt
	AppendSummary(ctx context.Context, owner *domain.Owner, rec *domain.ConversationSummary) error
	// ListSummaries returns a page of the owner's history in append order and the total count
	ListSummaries(ctx context.Context, owner *domain.Owner, limit, offset int) ([]*domain.ConversationSummary, int64, error)
}
