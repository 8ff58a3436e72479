package domain

import "time"

const SentimentNeutral = "neutral"

// Sentiment is the tone label attached to a summary
type Sentiment struct {
	Label      string  `json:"label" bson:"label"`
	Confidence float64 `json:"confidence" bson:"confidence"`
}

// DefaultSentiment is recorded whenever sentiment analysis fails
func DefaultSentiment() Sentiment {
	return Sentiment{Label: SentimentNeutral, Confidence: 0}
}

// ConversationSummary is one entry of a user's conversation history.
// Entries are appended and never edited; order is append order.
type ConversationSummary struct {
	ID        string    `json:"id" gorm:"primaryKey" bson:"recordId,omitempty"`
	UserID    string    `json:"user_id" gorm:"index:idx_user_created;not null" bson:"-"`
	Summary   string    `json:"summary" gorm:"type:text;not null" bson:"summary"`
	Sentiment Sentiment `json:"sentiment" gorm:"embedded;embeddedPrefix:sentiment_" bson:"sentiment"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_user_created" bson:"createdAt"`
}

// TableName specifies the table name for GORM
func (ConversationSummary) TableName() string {
	return "conversation_summaries"
}

// Owner identifies the user a summary is appended to
type Owner struct {
	ID    string
	Email string
}
