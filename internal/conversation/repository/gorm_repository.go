package repository

import (
	"context"
	"errors"
	"time"

	authdomain "medbot-backend/internal/auth/domain"
	authrepo "medbot-backend/internal/auth/repository"
	"medbot-backend/internal/conversation/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormUserStore keeps history in conversation_summaries, one row per entry
type gormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore creates a UserStore backed by the relational users table
func NewGormUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{
		db: db,
	}
}

func (r *gormUserStore) FindOwner(ctx context.Context, email string) (*domain.Owner, error) {
	var user authdomain.User
	err := r.db.WithContext(ctx).
		Select("id", "email").
		Where("email = ?", authrepo.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Owner{ID: user.ID, Email: user.Email}, nil
}

// AppendSummary stores rec with a version 7 id. Those ids increase within a process,
// so they order entries that share a created_at.
func (r *gormUserStore) AppendSummary(ctx context.Context, owner *domain.Owner, rec *domain.ConversationSummary) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	rec.ID = id.String()
	rec.UserID = owner.ID
	rec.CreatedAt = time.Now()

	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *gormUserStore) ListSummaries(ctx context.Context, owner *domain.Owner, limit, offset int) ([]*domain.ConversationSummary, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&domain.ConversationSummary{}).Where("user_id = ?", owner.ID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*domain.ConversationSummary
	err := query.Order("created_at ASC").Order("id ASC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
